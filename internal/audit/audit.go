package audit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	upload "energy-backtest/internal/upload/domain"
)

// Entry records one upload attempt.
type Entry struct {
	ID         string
	Actor      string
	Action     string
	Filename   string
	RawPath    string
	Result     string
	ErrorCount int
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "audit-" + hex.EncodeToString(buf)
}

// EntryForRejection builds an entry for a rejected upload.
func EntryForRejection(action, filename string, verr *upload.ValidationError) Entry {
	return Entry{
		Action:     action,
		Filename:   filename,
		RawPath:    verr.RawPath,
		Result:     "rejected",
		ErrorCount: len(verr.Errors),
	}
}
