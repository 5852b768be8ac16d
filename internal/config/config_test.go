package config

import (
	"os"
	"path/filepath"
	"testing"
)

var configKeys = []string{
	"STORE_BACKEND", "GOOGLE_SHEET_ID", "SHEET_NAME", "PORT", "HOST", "TIMEZONE",
	"REVISION_INTERVALS", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "ENABLE_SCHEDULER",
	"DIGEST_TIME", "XLSX_PATH", "DB_DRIVER", "DB_DSN",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvRequiresSheetID(t *testing.T) {
	clearEnv(t)
	if _, err := FromEnv(); err == nil {
		t.Error("expected error without GOOGLE_SHEET_ID")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SHEET_ID", "abc")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Backend != BackendGoogle || cfg.SheetName != "Sheet1" || cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.SchedulerEnabled || cfg.DigestTime != "08:00" {
		t.Errorf("scheduler settings = %v %s", cfg.SchedulerEnabled, cfg.DigestTime)
	}
	if len(cfg.Intervals) != 5 || cfg.Intervals[4] != 30 {
		t.Errorf("Intervals = %v", cfg.Intervals)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "XLSX")
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("REVISION_INTERVALS", "2,4,8")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("ENABLE_SCHEDULER", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Backend != BackendXLSX || cfg.Port != 9090 || cfg.Location.String() != "UTC" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Intervals) != 3 || cfg.TelegramChatID != -100123 || cfg.SchedulerEnabled {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STORE_BACKEND":      "mongo",
		"PORT":               "http",
		"TIMEZONE":           "Mars/Base",
		"REVISION_INTERVALS": "1,0",
		"TELEGRAM_CHAT_ID":   "me",
		"DIGEST_TIME":        "8am",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORE_BACKEND", "sql")
			t.Setenv(key, value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("%s=%q should fail", key, value)
			}
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("GOOGLE_SHEET_ID")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GOOGLE_SHEET_ID=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SheetID != "from-file" {
		t.Errorf("SheetID = %q", cfg.SheetID)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "sql")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}
