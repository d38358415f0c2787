package parser

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	upload "energy-backtest/internal/upload/domain"
)

// CSVParser reads comma- or semicolon-delimited meter exports.
type CSVParser struct {
	loc *time.Location
}

// NewCSVParser constructs a parser interpreting naive timestamps in loc.
func NewCSVParser(loc *time.Location) *CSVParser {
	return &CSVParser{loc: loc}
}

// Parse reads the whole file, resolves the header, and converts every data
// row. Row-level findings accumulate; nothing fails fast.
func (p *CSVParser) Parse(data []byte) ([]upload.RawRow, []upload.ParsingError) {
	records, err := readRecords(data, ';')
	// Semicolon is the common delimiter for these exports; fall back to
	// comma when it did not split the header.
	if err == nil && len(records) > 0 && len(records[0]) <= 1 {
		records, err = readRecords(data, ',')
	}
	if err != nil || len(records) == 0 {
		return nil, []upload.ParsingError{{
			Code:    upload.CodeMissingHeader,
			Message: "CSV file has no header row",
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

		if register := cellString(record, cols.register); register != "" &&
			!strings.Contains(register, consumptionRegister) {
			// Injection and other non-consumption registers are skipped.
			continue
		}

		rawValue := cellString(record, cols.value)
		if rawValue == "" {
			continue
		}
		value, verr := parseFloat(rawValue, rowNum)
		if verr != nil {
			errs = append(errs, *verr)
		}

		var local time.Time
		var terr *upload.ParsingError
		if cols.splitTimestamp() {
			local, terr = parseDateTime(cellString(record, cols.date), cellString(record, cols.clock), p.loc, rowNum)
		} else {
			local, terr = parseTimestamp(cellString(record, cols.timestamp), p.loc, rowNum)
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

func readRecords(data []byte, delimiter rune) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}
