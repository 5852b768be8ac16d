// Package sheets stores topic rows in a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gsheets "google.golang.org/api/sheets/v4"

	"github.com/example/revtrack/internal/excel"
)

const (
	readColumns   = "A2:I"
	appendColumns = "A2:F"

	valueInputOption = "USER_ENTERED"
	insertDataOption = "INSERT_ROWS"
)

// Client reads and writes topic rows of one sheet
type Client struct {
	srv           *gsheets.Service
	spreadsheetID string
	sheet         string
}

// New creates a client for the given spreadsheet and sheet name
func New(srv *gsheets.Service, spreadsheetID, sheet string) *Client {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Client{srv: srv, spreadsheetID: spreadsheetID, sheet: sheet}
}

// a1 prefixes ref with the quoted sheet name
func (c *Client) a1(ref string) string {
	return "'" + strings.ReplaceAll(c.sheet, "'", "''") + "'!" + ref
}

// FetchAllRows returns the data rows below the header
func (c *Client) FetchAllRows(ctx context.Context) ([][]string, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, c.a1(readColumns)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

// AppendRow inserts row after the last row of the table
func (c *Client) AppendRow(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	vr := &gsheets.ValueRange{Values: [][]interface{}{values}}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, c.a1(appendColumns), vr).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertDataOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// WriteCells updates fields of one topic row in a single batch request
func (c *Client) WriteCells(ctx context.Context, rowIndex int, cells map[int]string) error {
	fields := make([]int, 0, len(cells))
	for field := range cells {
		fields = append(fields, field)
	}
	sort.Ints(fields)

	req := &gsheets.BatchUpdateValuesRequest{ValueInputOption: valueInputOption}
	for _, field := range fields {
		ref, err := excel.CellName(rowIndex, field)
		if err != nil {
			return err
		}
		req.Data = append(req.Data, &gsheets.ValueRange{
			Range:  c.a1(ref),
			Values: [][]interface{}{{cells[field]}},
		})
	}

	if _, err := c.srv.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update row %d: %w", excel.SheetRow(rowIndex), err)
	}
	return nil
}
