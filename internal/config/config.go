package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/revtrack/internal/spaced_repetition"
)

// Store backends
const (
	BackendGoogle = "google"
	BackendXLSX   = "xlsx"
	BackendSQL    = "sql"
)

// Config holds runtime settings read from the environment
type Config struct {
	Backend string

	SheetID         string
	SheetName       string
	CredentialsFile string
	TokenFile       string

	XLSXPath string

	DBDriver string
	DBDSN    string

	Host     string
	Port     int
	Location *time.Location

	Intervals spaced_repetition.Intervals

	TelegramToken    string
	TelegramChatID   int64
	SchedulerEnabled bool
	DigestTime       string
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables
func FromEnv() (*Config, error) {
	cfg := &Config{
		Backend:          strings.ToLower(getEnv("STORE_BACKEND", BackendGoogle)),
		SheetID:          os.Getenv("GOOGLE_SHEET_ID"),
		SheetName:        getEnv("SHEET_NAME", "Sheet1"),
		CredentialsFile:  getEnv("GOOGLE_CREDENTIALS_FILE", "credentials/client_secret.json"),
		TokenFile:        getEnv("GOOGLE_TOKEN_FILE", "credentials/token.json"),
		XLSXPath:         getEnv("XLSX_PATH", "data/topics.xlsx"),
		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:            getEnv("DB_DSN", "data/revtrack.db"),
		Host:             getEnv("HOST", "127.0.0.1"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		SchedulerEnabled: os.Getenv("ENABLE_SCHEDULER") != "false",
		DigestTime:       getEnv("DIGEST_TIME", "08:00"),
		Intervals:        spaced_repetition.DefaultIntervals,
	}

	switch cfg.Backend {
	case BackendGoogle:
		if cfg.SheetID == "" {
			return nil, fmt.Errorf("GOOGLE_SHEET_ID is not set")
		}
	case BackendXLSX, BackendSQL:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if s := os.Getenv("REVISION_INTERVALS"); s != "" {
		iv, err := spaced_repetition.ParseIntervals(s)
		if err != nil {
			return nil, fmt.Errorf("invalid REVISION_INTERVALS: %w", err)
		}
		cfg.Intervals = iv
	}

	if s := os.Getenv("TELEGRAM_CHAT_ID"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if _, err := time.Parse("15:04", cfg.DigestTime); err != nil {
		return nil, fmt.Errorf("invalid DIGEST_TIME %q", cfg.DigestTime)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
