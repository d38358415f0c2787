package parser

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	upload "energy-backtest/internal/upload/domain"
)

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", name, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestXLSXParserHappyPath(t *testing.T) {
	loc := testLocation(t)
	data := workbookBytes(t, [][]any{
		{"timestamp", "value"},
		{"2024-01-01 00:00", "1,5"},
		{"2024-01-01 00:15", "2.5"},
	})

	rows, errs := NewXLSXParser(loc).Parse(data)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	if !rows[0].Local.Equal(want) || rows[0].Value != 1.5 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
}

func TestXLSXParserMissingValue(t *testing.T) {
	data := workbookBytes(t, [][]any{
		{"timestamp", "value"},
		{"2024-01-01 00:00", ""},
		{"2024-01-01 00:15", "1"},
	})

	rows, errs := NewXLSXParser(testLocation(t)).Parse(data)
	if len(rows) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(rows))
	}
	if len(errs) != 1 || errs[0].Code != upload.CodeMissingValue || errs[0].Row != 2 {
		t.Fatalf("expected missing_value at row 2, got %v", errs)
	}
}

func TestXLSXParserSerialDates(t *testing.T) {
	loc := testLocation(t)
	// A date serial plus a time fraction, as raw numeric text.
	data := workbookBytes(t, [][]any{
		{"datum", "uur", "waarde"},
		{"45292", "0.25", "3"},
	})

	rows, errs := NewXLSXParser(loc).Parse(data)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := time.Date(2024, 1, 1, 6, 0, 0, 0, loc)
	if !rows[0].Local.Equal(want) {
		t.Fatalf("expected %s, got %s", want, rows[0].Local)
	}
}

func TestXLSXParserEmptyWorkbook(t *testing.T) {
	data := workbookBytes(t, nil)
	rows, errs := NewXLSXParser(testLocation(t)).Parse(data)
	if rows != nil || len(errs) != 1 || errs[0].Code != upload.CodeEmptyFile {
		t.Fatalf("expected empty_file, got rows=%v errs=%v", rows, errs)
	}
}

func TestXLSXParserNotAWorkbook(t *testing.T) {
	rows, errs := NewXLSXParser(testLocation(t)).Parse([]byte("timestamp;value\n"))
	if rows != nil || len(errs) != 1 || errs[0].Code != upload.CodeUnsupportedFormat {
		t.Fatalf("expected unsupported_format, got rows=%v errs=%v", rows, errs)
	}
}

func TestForFilename(t *testing.T) {
	loc := testLocation(t)
	if p, ok := ForFilename("meter.csv", loc); !ok {
		t.Fatalf("csv must be supported")
	} else if _, isCSV := p.(*CSVParser); !isCSV {
		t.Fatalf("expected CSVParser, got %T", p)
	}
	if p, ok := ForFilename("Meter.XLSX", loc); !ok {
		t.Fatalf("xlsx must be supported")
	} else if _, isXLSX := p.(*XLSXParser); !isXLSX {
		t.Fatalf("expected XLSXParser, got %T", p)
	}
	if _, ok := ForFilename("meter.pdf", loc); ok {
		t.Fatalf("pdf must be rejected")
	}
}
