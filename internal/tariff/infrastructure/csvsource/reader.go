package csvsource

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tariff "energy-backtest/internal/tariff/domain"
)

const (
	defaultTimestampKey = "timestamp"
	defaultBasePriceKey = "base_price_eur_per_kwh"
	defaultSurchargeKey = "surcharge_eur_per_kwh"
)

// Reader loads quarter-hour tariff tables from header-keyed CSV data.
type Reader struct {
	timestampKey string
	basePriceKey string
	surchargeKey string
}

// Option configures the reader.
type Option func(*Reader)

// WithTimestampKey overrides the timestamp column name.
func WithTimestampKey(key string) Option {
	return func(r *Reader) {
		if key != "" {
			r.timestampKey = key
		}
	}
}

// WithBasePriceKey overrides the base price column name.
func WithBasePriceKey(key string) Option {
	return func(r *Reader) {
		if key != "" {
			r.basePriceKey = key
		}
	}
}

// WithSurchargeKey overrides the surcharge column name.
func WithSurchargeKey(key string) Option {
	return func(r *Reader) {
		if key != "" {
			r.surchargeKey = key
		}
	}
}

// NewReader constructs a reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		timestampKey: defaultTimestampKey,
		basePriceKey: defaultBasePriceKey,
		surchargeKey: defaultSurchargeKey,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile loads a tariff series from a CSV file.
func (r *Reader) ReadFile(path string) (tariff.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return tariff.Series{}, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return tariff.Series{}, err
	}
	if len(records) == 0 {
		return tariff.Series{}, fmt.Errorf("tariff csv %s: missing header", path)
	}
	return r.ReadRows(records[0], records[1:])
}

// ReadRows builds a tariff series from a header row and data rows. The
// surcharge column is optional and defaults to 0.
func (r *Reader) ReadRows(header []string, rows [][]string) (tariff.Series, error) {
	tsIdx := indexOf(header, r.timestampKey)
	baseIdx := indexOf(header, r.basePriceKey)
	surchargeIdx := indexOf(header, r.surchargeKey)
	if tsIdx < 0 || baseIdx < 0 {
		return tariff.Series{}, fmt.Errorf("tariff csv: missing %q or %q column", r.timestampKey, r.basePriceKey)
	}

	tariffs := make([]tariff.Tariff, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(field(row, tsIdx))
		if err != nil {
			return tariff.Series{}, fmt.Errorf("tariff csv row %d: %w", i+2, err)
		}
		base, err := strconv.ParseFloat(field(row, baseIdx), 64)
		if err != nil {
			return tariff.Series{}, fmt.Errorf("tariff csv row %d: invalid base price", i+2)
		}
		surcharge := 0.0
		if raw := field(row, surchargeIdx); raw != "" {
			surcharge, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return tariff.Series{}, fmt.Errorf("tariff csv row %d: invalid surcharge", i+2)
			}
		}
		tariffs = append(tariffs, tariff.Tariff{Timestamp: ts, BasePrice: base, Surcharge: surcharge})
	}
	return tariff.NewSeries(tariffs), nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

func indexOf(header []string, name string) int {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}

func field(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
