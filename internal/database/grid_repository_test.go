package database

import (
	"context"
	"testing"
)

func setupTestRepository(t *testing.T) *GridRepository {
	t.Helper()
	db, err := Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGridRepository(db)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := Connect("oracle", "x"); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestGridRepositoryEmpty(t *testing.T) {
	repo := setupTestRepository(t)

	rows, err := repo.FetchAllRows(context.Background())
	if err != nil {
		t.Fatalf("FetchAllRows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v", rows)
	}
}

func TestGridRepositoryAppendAndWrite(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	if err := repo.WriteHeader(ctx, []string{"Subject", "Topic"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := repo.AppendRow(ctx, []string{"Math", "Algebra", "Not Revised", "", "", "2024-01-06"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := repo.AppendRow(ctx, []string{"Bio", "Cells", "Not Revised", "", "", "2024-01-09"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	err := repo.WriteCells(ctx, 0, map[int]string{2: "Revised", 3: "2024-01-10", 6: "2024-01-11"})
	if err != nil {
		t.Fatalf("WriteCells: %v", err)
	}

	rows, err := repo.FetchAllRows(ctx)
	if err != nil {
		t.Fatalf("FetchAllRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "Math" || rows[0][2] != "Revised" || rows[0][6] != "2024-01-11" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1][0] != "Bio" || len(rows[1]) != 6 {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestGridRepositoryKeepsGaps(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	if err := repo.WriteCells(ctx, 2, map[int]string{0: "Late"}); err != nil {
		t.Fatalf("WriteCells: %v", err)
	}

	rows, err := repo.FetchAllRows(ctx)
	if err != nil {
		t.Fatalf("FetchAllRows: %v", err)
	}
	if len(rows) != 3 || len(rows[0]) != 0 || rows[2][0] != "Late" {
		t.Errorf("rows = %v", rows)
	}

	if err := repo.AppendRow(ctx, []string{"Next"}); err != nil {
		t.Fatal(err)
	}
	rows, _ = repo.FetchAllRows(ctx)
	if len(rows) != 4 || rows[3][0] != "Next" {
		t.Errorf("rows = %v", rows)
	}
}

func TestGridRepositoryRejectsNegativeIndex(t *testing.T) {
	repo := setupTestRepository(t)
	if err := repo.WriteCells(context.Background(), -1, map[int]string{0: "x"}); err == nil {
		t.Error("expected error")
	}
}

func TestInsertCellDoesNotOverwrite(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	if err := repo.AppendRow(ctx, []string{"Math"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := insertCell(ctx, tx, firstDataRow, 0, "Bio"); err == nil {
		t.Error("expected primary key conflict")
	}
	tx.Rollback()

	rows, err := repo.FetchAllRows(ctx)
	if err != nil {
		t.Fatalf("FetchAllRows: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "Math" {
		t.Errorf("rows = %v", rows)
	}
}
