package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func newTestWorkbook(t *testing.T) (*Workbook, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "topics.xlsx")
	w, err := OpenWorkbook(path, "Topics")
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	return w, path
}

func TestCellName(t *testing.T) {
	cases := []struct {
		row, field int
		want       string
	}{
		{0, 2, "C2"},
		{0, 3, "D2"},
		{3, 6, "G5"},
		{10, 8, "I12"},
	}
	for _, tc := range cases {
		got, err := CellName(tc.row, tc.field)
		if err != nil || got != tc.want {
			t.Errorf("CellName(%d, %d) = %q, %v; want %q", tc.row, tc.field, got, err, tc.want)
		}
	}
	if _, err := CellName(-1, 0); err == nil {
		t.Error("negative row should fail")
	}
}

func TestWorkbookCreatesHeader(t *testing.T) {
	w, path := newTestWorkbook(t)

	rows, err := w.FetchAllRows(context.Background())
	if err != nil {
		t.Fatalf("FetchAllRows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("new workbook has %d data rows", len(rows))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Topics", "A1"); v != "Subject" {
		t.Errorf("A1 = %q", v)
	}
}

func TestWorkbookAppendAndWrite(t *testing.T) {
	w, path := newTestWorkbook(t)
	ctx := context.Background()

	if err := w.AppendRow(ctx, []string{"Math", "Algebra", "Not Revised", "", "", "2024-01-06"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := w.AppendRow(ctx, []string{"Bio", "Cells", "Not Revised", "", "", "2024-01-09"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	err := w.WriteCells(ctx, 1, map[int]string{2: "Revised", 3: "2024-01-10", 6: "2024-01-11"})
	if err != nil {
		t.Fatalf("WriteCells: %v", err)
	}

	rows, err := w.FetchAllRows(ctx)
	if err != nil {
		t.Fatalf("FetchAllRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Math" || rows[1][2] != "Revised" || rows[1][6] != "2024-01-11" {
		t.Errorf("rows = %v", rows)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Topics", "D3"); v != "2024-01-10" {
		t.Errorf("D3 = %q", v)
	}
}

func TestOpenWorkbookKeepsExistingFile(t *testing.T) {
	w, path := newTestWorkbook(t)
	if err := w.AppendRow(context.Background(), []string{"Math", "Algebra"}); err != nil {
		t.Fatal(err)
	}

	again, err := OpenWorkbook(path, "Topics")
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	rows, err := again.FetchAllRows(context.Background())
	if err != nil || len(rows) != 1 {
		t.Errorf("rows = %v, err = %v", rows, err)
	}
}

func TestWorkbookCanceledContext(t *testing.T) {
	w, _ := newTestWorkbook(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.FetchAllRows(ctx); err == nil {
		t.Error("FetchAllRows should honour cancellation")
	}
	if err := w.AppendRow(ctx, []string{"x"}); err == nil {
		t.Error("AppendRow should honour cancellation")
	}
}

type recordingAdder struct {
	added [][4]string
}

func (r *recordingAdder) AddTopic(ctx context.Context, subject, topic, notes, dateStudied string) error {
	r.added = append(r.added, [4]string{subject, topic, notes, dateStudied})
	return nil
}

func TestImportTopicsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.csv")
	content := "Subject,Topic,Notes,Date\nMath,Algebra,ch1,2024-01-01\n,,,\nBio,Cells,,2024-01-02\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	adder := &recordingAdder{}
	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportTopics(context.Background(), adder, config)
	if err != nil {
		t.Fatalf("ImportTopics: %v", err)
	}
	if result.TotalProcessed != 3 || result.Created != 2 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
	if adder.added[1] != [4]string{"Bio", "Cells", "", "2024-01-02"} {
		t.Errorf("added = %v", adder.added)
	}
}

func TestImportTopicsFromExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.xlsx")
	f := excelize.NewFile()
	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Subject", "Topic", "Notes", "Date"})
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Chem", "Bonds", "ionic", "2024-01-03"})
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	adder := &recordingAdder{}
	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportTopics(context.Background(), adder, config)
	if err != nil {
		t.Fatalf("ImportTopics: %v", err)
	}
	if result.Created != 1 || adder.added[0][0] != "Chem" {
		t.Errorf("result = %+v, added = %v", result, adder.added)
	}
}
