package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// firstDataRow is the 1-based grid row of topic index 0; row 1 is the header
const firstDataRow = 2

// cell is one stored grid value
type cell struct {
	Row   int    `db:"row_num"`
	Col   int    `db:"col_num"`
	Value string `db:"value"`
}

// GridRepository stores topic rows as a sparse row/column grid in SQL
type GridRepository struct {
	db *sqlx.DB
}

// NewGridRepository creates a new repository instance
func NewGridRepository(db *sqlx.DB) *GridRepository {
	return &GridRepository{db: db}
}

// FetchAllRows rebuilds the data rows from stored cells.
// Gaps become empty rows so indexes stay positional.
func (r *GridRepository) FetchAllRows(ctx context.Context) ([][]string, error) {
	var cells []cell
	query := r.db.Rebind(`
		SELECT row_num, col_num, value
		FROM topic_cells
		WHERE row_num >= ?
		ORDER BY row_num, col_num
	`)
	if err := r.db.SelectContext(ctx, &cells, query, firstDataRow); err != nil {
		return nil, fmt.Errorf("failed to get cells: %w", err)
	}

	rows := [][]string{}
	for _, c := range cells {
		idx := c.Row - firstDataRow
		for len(rows) <= idx {
			rows = append(rows, []string{})
		}
		for len(rows[idx]) <= c.Col {
			rows[idx] = append(rows[idx], "")
		}
		rows[idx][c.Col] = c.Value
	}

	return rows, nil
}

// AppendRow stores row below the last used grid row. A concurrent append
// that picked the same row fails on the primary key instead of overwriting.
func (r *GridRepository) AppendRow(ctx context.Context, row []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var last sql.NullInt64
	if err := tx.GetContext(ctx, &last, "SELECT MAX(row_num) FROM topic_cells"); err != nil {
		return fmt.Errorf("failed to get last row: %w", err)
	}

	next := firstDataRow
	if last.Valid && int(last.Int64)+1 > next {
		next = int(last.Int64) + 1
	}

	for col, value := range row {
		if err := insertCell(ctx, tx, next, col, value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WriteCells updates several fields of one topic row atomically
func (r *GridRepository) WriteCells(ctx context.Context, rowIndex int, cells map[int]string) error {
	if rowIndex < 0 {
		return fmt.Errorf("invalid row index %d", rowIndex)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for col, value := range cells {
		if err := upsertCell(ctx, tx, rowIndex+firstDataRow, col, value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WriteHeader stores the header row
func (r *GridRepository) WriteHeader(ctx context.Context, header []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for col, value := range header {
		if err := upsertCell(ctx, tx, 1, col, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsertCell(ctx context.Context, tx *sqlx.Tx, row, col int, value string) error {
	query := tx.Rebind(`
		INSERT INTO topic_cells (row_num, col_num, value)
		VALUES (?, ?, ?)
		ON CONFLICT (row_num, col_num) DO UPDATE SET value = excluded.value
	`)
	if _, err := tx.ExecContext(ctx, query, row, col, value); err != nil {
		return fmt.Errorf("failed to write cell (%d, %d): %w", row, col, err)
	}
	return nil
}

func insertCell(ctx context.Context, tx *sqlx.Tx, row, col int, value string) error {
	query := tx.Rebind(`INSERT INTO topic_cells (row_num, col_num, value) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, query, row, col, value); err != nil {
		return fmt.Errorf("failed to insert cell (%d, %d): %w", row, col, err)
	}
	return nil
}
