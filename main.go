package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/revtrack/internal/api"
	"github.com/example/revtrack/internal/bot"
	"github.com/example/revtrack/internal/config"
	"github.com/example/revtrack/internal/database"
	"github.com/example/revtrack/internal/excel"
	"github.com/example/revtrack/internal/scheduler"
	"github.com/example/revtrack/internal/sheets"
	"github.com/example/revtrack/internal/spaced_repetition"
	"github.com/example/revtrack/internal/tracker"
)

func main() {
	importPath := flag.String("import", "", "import topics from a CSV or XLSX file and exit")
	flag.Parse()

	if err := run(*importPath); err != nil {
		log.Fatal(err)
	}
}

// run wires the configured store into the API, bot and scheduler and serves
// until a shutdown signal. With importPath set it only imports that file.
func run(importPath string) error {
	log.Println("Starting backend...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}
	defer closeRepo()

	schedule, err := spaced_repetition.NewScheduleWithIntervals(cfg.Intervals)
	if err != nil {
		return fmt.Errorf("invalid revision intervals: %w", err)
	}
	svc := tracker.NewService(repo, schedule)
	now := func() time.Time { return time.Now().In(cfg.Location) }

	if importPath != "" {
		importConfig := excel.DefaultImportConfig()
		importConfig.FilePath = importPath
		result, err := excel.ImportTopics(ctx, svc, importConfig)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		log.Printf("Imported %d of %d rows (%d skipped)", result.Created, result.TotalProcessed, result.Skipped)
		for _, e := range result.Errors {
			log.Println(e)
		}
		return nil
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var notifier scheduler.Notifier = scheduler.LogNotifier{}

	var b *bot.Bot
	if cfg.TelegramToken != "" {
		b, err = bot.New(cfg.TelegramToken, cfg.TelegramChatID, svc, now)
		if err != nil {
			return err
		}
		notifier = b
		go func() {
			if err := b.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("Bot error: %v", err)
			}
		}()
	}

	if cfg.SchedulerEnabled {
		sched := scheduler.New(svc, notifier, cfg.Location, cfg.DigestTime)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	server := api.NewServer(cfg.Addr(), api.NewHandler(svc, now))

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if b != nil {
			b.Stop()
		}
		if err := server.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Server stopped successfully")
	return nil
}

// openRepository builds the configured store. The returned func releases it.
func openRepository(ctx context.Context, cfg *config.Config) (tracker.Repository, func(), error) {
	switch cfg.Backend {
	case config.BackendXLSX:
		w, err := excel.OpenWorkbook(cfg.XLSXPath, cfg.SheetName)
		return w, func() {}, err
	case config.BackendSQL:
		db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := database.NewGridRepository(db)
		if err := repo.WriteHeader(ctx, excel.HeaderRow); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil
	default:
		srv, err := sheets.NewService(ctx, cfg.CredentialsFile, cfg.TokenFile)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Authorized with Google")
		return sheets.New(srv, cfg.SheetID, cfg.SheetName), func() {}, nil
	}
}
