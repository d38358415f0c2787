package parser

import (
	"path/filepath"
	"strings"
	"time"

	upload "energy-backtest/internal/upload/domain"
)

// RowParser parses one upload format into raw rows. Implementations collect
// every row-level finding instead of stopping at the first one.
type RowParser interface {
	Parse(data []byte) ([]upload.RawRow, []upload.ParsingError)
}

// ForFilename selects the parser for an upload by file extension. The second
// return value is false for unsupported extensions.
func ForFilename(name string, loc *time.Location) (RowParser, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return NewCSVParser(loc), true
	case ".xlsx", ".xlsm":
		return NewXLSXParser(loc), true
	default:
		return nil, false
	}
}
