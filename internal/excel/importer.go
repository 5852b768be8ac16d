package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TopicAdder receives imported topics
type TopicAdder interface {
	AddTopic(ctx context.Context, subject, topic, notes, dateStudied string) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	SubjectColumn     string // Column with the subject
	TopicColumn       string // Column with the topic
	NotesColumn       string // Column with the notes
	DateStudiedColumn string // Column with the study date
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SubjectColumn:     "A",
		TopicColumn:       "B",
		NotesColumn:       "C",
		DateStudiedColumn: "D",
		SheetName:         "Sheet1",
		StartRow:          2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportTopics reads topics from an Excel or CSV file and adds each one
func ImportTopics(ctx context.Context, adder TopicAdder, config ImportConfig) (*ImportResult, error) {
	var rows [][]string
	var err error

	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	cols, err := config.columnIndexes()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		get := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		subject, topic := get(cols[0]), get(cols[1])
		if subject == "" && topic == "" {
			result.Skipped++
			continue
		}

		if err := adder.AddTopic(ctx, subject, topic, get(cols[2]), get(cols[3])); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

func (c ImportConfig) columnIndexes() ([4]int, error) {
	var out [4]int
	for i, name := range []string{c.SubjectColumn, c.TopicColumn, c.NotesColumn, c.DateStudiedColumn} {
		n, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return out, fmt.Errorf("invalid column %q: %w", name, err)
		}
		out[i] = n - 1
	}
	return out, nil
}

// readExcel returns all rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
