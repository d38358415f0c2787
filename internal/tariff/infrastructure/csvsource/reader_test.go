package csvsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadRows(t *testing.T) {
	header := []string{"timestamp", "base_price_eur_per_kwh", "surcharge_eur_per_kwh"}
	rows := [][]string{
		{"2024-01-01T00:00:00Z", "0.18", "0.02"},
		{"2024-01-01T00:15:00Z", "0.28", ""},
	}

	series, err := NewReader().ReadRows(header, rows)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("expected 2 tariffs, got %d", series.Len())
	}
	first, ok := series.Get(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if !ok || first.BasePrice != 0.18 || first.Surcharge != 0.02 {
		t.Fatalf("unexpected first tariff: %+v", first)
	}
	second, ok := series.Get(time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC))
	if !ok || second.Surcharge != 0 {
		t.Fatalf("empty surcharge must default to 0: %+v", second)
	}
}

func TestReadRowsCustomKeys(t *testing.T) {
	reader := NewReader(
		WithTimestampKey("tijdstip"),
		WithBasePriceKey("prijs"),
	)
	series, err := reader.ReadRows(
		[]string{"tijdstip", "prijs"},
		[][]string{{"2024-01-01T00:00:00Z", "0.22"}},
	)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if series.Len() != 1 {
		t.Fatalf("expected 1 tariff, got %d", series.Len())
	}
}

func TestReadRowsErrors(t *testing.T) {
	header := []string{"timestamp", "base_price_eur_per_kwh"}

	if _, err := NewReader().ReadRows([]string{"foo"}, nil); err == nil {
		t.Fatalf("missing columns must be rejected")
	}
	_, err := NewReader().ReadRows(header, [][]string{{"garbage", "0.1"}})
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("expected row-numbered timestamp error, got %v", err)
	}
	_, err = NewReader().ReadRows(header, [][]string{{"2024-01-01T00:00:00Z", "cheap"}})
	if err == nil || !strings.Contains(err.Error(), "invalid base price") {
		t.Fatalf("expected base price error, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariffs.csv")
	content := "timestamp,base_price_eur_per_kwh,surcharge_eur_per_kwh\n" +
		"2024-01-01T00:00:00Z,0.18,0.02\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	series, err := NewReader().ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if series.Len() != 1 {
		t.Fatalf("expected 1 tariff, got %d", series.Len())
	}

	if _, err := NewReader().ReadFile(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatalf("missing file must be an error")
	}
}
