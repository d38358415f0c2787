package audit

import (
	"context"
	"strings"
	"testing"

	upload "energy-backtest/internal/upload/domain"
)

func TestNewRepositoryNilDB(t *testing.T) {
	if repo := NewRepository(nil); repo != nil {
		t.Fatalf("expected nil repository for nil db, got %v", repo)
	}
}

func TestLogNilGuards(t *testing.T) {
	var repo *Repository
	if err := repo.Log(context.Background(), Entry{Action: "upload.parse"}); err == nil {
		t.Fatalf("nil receiver must be rejected")
	}
	if err := (&Repository{}).Log(context.Background(), Entry{Action: "upload.parse"}); err == nil {
		t.Fatalf("nil db must be rejected")
	}
}

func TestNewID(t *testing.T) {
	first := NewID()
	second := NewID()
	if !strings.HasPrefix(first, "audit-") {
		t.Fatalf("unexpected id format: %q", first)
	}
	if first == second {
		t.Fatalf("ids must not collide: %q", first)
	}
}

func TestEntryForRejection(t *testing.T) {
	verr := &upload.ValidationError{
		RawPath: "raw/meter.csv",
		Errors: []upload.ParsingError{
			{Code: upload.CodeInvalidValue, Row: 2},
			{Code: upload.CodeInvalidTimestamp, Row: 3},
		},
	}
	entry := EntryForRejection("upload.parse", "meter.csv", verr)
	if entry.Action != "upload.parse" || entry.Filename != "meter.csv" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Result != "rejected" || entry.ErrorCount != 2 {
		t.Fatalf("rejection attributes wrong: %+v", entry)
	}
	if entry.RawPath != "raw/meter.csv" {
		t.Fatalf("raw path not carried: %+v", entry)
	}
}
