package parser

import (
	"bytes"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	upload "energy-backtest/internal/upload/domain"
)

// XLSXParser reads spreadsheet exports: first sheet, first row is the header,
// data starts at row 2.
type XLSXParser struct {
	loc *time.Location
}

// NewXLSXParser constructs a parser interpreting naive timestamps in loc.
func NewXLSXParser(loc *time.Location) *XLSXParser {
	return &XLSXParser{loc: loc}
}

// Parse reads the first sheet. Unlike the CSV path, spreadsheets are assumed
// complete: an empty value cell is a reported missing_value finding.
func (p *XLSXParser) Parse(data []byte) ([]upload.RawRow, []upload.ParsingError) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, []upload.ParsingError{{
			Code:    upload.CodeUnsupportedFormat,
			Message: "not a readable xlsx workbook",
		}}
	}
	defer book.Close()

	records, err := book.GetRows(book.GetSheetName(0))
	if err != nil || len(records) == 0 {
		return nil, []upload.ParsingError{{
			Code:    upload.CodeEmptyFile,
			Message: "spreadsheet contains no data",
		}}
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	cols := resolveColumns(header)
	if !cols.parseable() {
		return nil, []upload.ParsingError{{
			Code:    upload.CodeMissingColumns,
			Message: "expected timestamp/value or date/time/value columns",
		}}
	}

	var rows []upload.RawRow
	var errs []upload.ParsingError
	for i, record := range records[1:] {
		rowNum := i + 2

		rawValue := cellString(record, cols.value)
		if rawValue == "" {
			errs = append(errs, upload.ParsingError{
				Code:    upload.CodeMissingValue,
				Message: "empty value cell",
				Row:     rowNum,
			})
			continue
		}
		value, verr := parseFloat(rawValue, rowNum)
		if verr != nil {
			errs = append(errs, *verr)
		}

		var local time.Time
		var terr *upload.ParsingError
		if cols.timestamp >= 0 {
			raw := normalizeDateCell(cellString(record, cols.timestamp))
			local, terr = parseTimestamp(raw, p.loc, rowNum)
		} else {
			dateRaw := normalizeDateCell(cellString(record, cols.date))
			timeRaw := normalizeDateCell(cellString(record, cols.clock))
			local, terr = parseDateTime(dateRaw, timeRaw, p.loc, rowNum)
		}
		if terr != nil {
			errs = append(errs, *terr)
		}

		if verr != nil || terr != nil {
			continue
		}
		rows = append(rows, upload.RawRow{Local: local, Value: value, Row: rowNum})
	}
	return rows, errs
}
