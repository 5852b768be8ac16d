package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/revtrack/internal/database"
)

func setupSQLEnv(t *testing.T) string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "revtrack.db")
	t.Setenv("STORE_BACKEND", "sql")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", dsn)
	return dsn
}

func TestRunImportsTopics(t *testing.T) {
	dsn := setupSQLEnv(t)
	path := filepath.Join(t.TempDir(), "topics.csv")
	content := "Subject,Topic,Notes,Date\nMath,Algebra,ch1,2024-01-01\nBio,Cells,,2024-01-02\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := run(path); err != nil {
		t.Fatalf("run: %v", err)
	}

	db, err := database.Connect("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	rows, err := database.NewGridRepository(db).FetchAllRows(context.Background())
	if err != nil {
		t.Fatalf("FetchAllRows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Bio" {
		t.Errorf("rows = %v", rows)
	}
}

func TestRunReturnsErrors(t *testing.T) {
	setupSQLEnv(t)
	if err := run(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected import error")
	}

	t.Setenv("STORE_BACKEND", "bogus")
	if err := run(""); err == nil {
		t.Error("expected configuration error")
	}
}
