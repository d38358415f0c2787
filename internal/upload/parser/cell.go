package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	upload "energy-backtest/internal/upload/domain"
)

// Wall-clock fallback layouts tried after ISO-8601, in order. Day-first
// variants cover the Belgian export conventions.
var fallbackLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04",
	"02/01/2006 15:04:05",
	"02-01-2006 15:04:05",
}

var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// cellString normalizes one raw cell into the string form the row parsers
// work on: trimmed, empty when absent or out of range.
func cellString(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// parseFloat reads a numeric cell, tolerating thousands spaces and a comma
// decimal separator.
func parseFloat(raw string, row int) (float64, *upload.ParsingError) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), ",", ".")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &upload.ParsingError{
			Code:    upload.CodeInvalidValue,
			Message: fmt.Sprintf("invalid value: %s", raw),
			Row:     row,
		}
	}
	return value, nil
}

// parseTimestamp reads a single-column timestamp. ISO-8601 with an explicit
// offset keeps that offset; anything else is interpreted as wall-clock time
// in the source zone.
func parseTimestamp(raw string, loc *time.Location, row int) (time.Time, *upload.ParsingError) {
	if raw == "" {
		return time.Time{}, &upload.ParsingError{
			Code:    upload.CodeMissingTimestamp,
			Message: "empty timestamp",
			Row:     row,
		}
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	for _, layout := range isoLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, nil
		}
	}
	for _, layout := range fallbackLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &upload.ParsingError{
		Code:    upload.CodeInvalidTimestamp,
		Message: fmt.Sprintf("invalid timestamp: %s", raw),
		Row:     row,
	}
}

// parseDateTime assembles a timestamp from separate date and time cells.
func parseDateTime(dateRaw, timeRaw string, loc *time.Location, row int) (time.Time, *upload.ParsingError) {
	if dateRaw == "" || timeRaw == "" {
		return time.Time{}, &upload.ParsingError{
			Code:    upload.CodeMissingTimestamp,
			Message: "date or time missing",
			Row:     row,
		}
	}
	combined := dateRaw + " " + timeRaw
	for _, layout := range fallbackLayouts {
		if ts, err := time.ParseInLocation(layout, combined, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &upload.ParsingError{
		Code:    upload.CodeInvalidTimestamp,
		Message: fmt.Sprintf("invalid date/time: %s", combined),
		Row:     row,
	}
}

// normalizeDateCell stringifies a spreadsheet-native date/time cell that
// surfaced as a raw serial number (days since 1899-12-30) into its ISO form:
// a date-only cell becomes YYYY-MM-DD, a time-only cell HH:MM:SS, a full
// datetime the combined ISO form. Non-serial cells pass through untouched.
func normalizeDateCell(raw string) string {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 {
		return raw
	}
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	seconds := serial * 24 * 60 * 60
	// Serial datetimes are not sub-minute exact.
	ts := epoch.Add(time.Duration(seconds * float64(time.Second))).Round(time.Minute)
	if serial < 1 {
		return ts.Format("15:04:05")
	}
	if ts.Hour() == 0 && ts.Minute() == 0 && serial == float64(int64(serial)) {
		return ts.Format("2006-01-02")
	}
	return ts.Format("2006-01-02T15:04:05")
}
