package postgres

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	upload "energy-backtest/internal/upload/domain"
)

// Repository persists validated uploads and their quarter-hour series.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts the upload and its records in one transaction and returns the
// generated upload id.
func (r *Repository) Save(ctx context.Context, parsed *upload.ParsedUpload, originalName string) (string, error) {
	if r == nil || r.db == nil {
		return "", errors.New("upload repo: nil db")
	}
	if parsed == nil {
		return "", errors.New("upload repo: nil upload")
	}

	id := newUploadID()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO uploads (
	id, original_name, raw_path, timezone, interval_minutes, record_count, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, originalName, parsed.RawPath, parsed.Timezone, parsed.IntervalMinutes,
		len(parsed.Series), time.Now().UTC(),
	)
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}
	for _, record := range parsed.Series {
		_, err := tx.ExecContext(ctx, `
INSERT INTO upload_records (upload_id, ts_utc, value_kwh)
VALUES ($1,$2,$3)`,
			id, record.TimestampUTC, record.Value)
		if err != nil {
			_ = tx.Rollback()
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Records loads the stored series of an upload in timestamp order.
func (r *Repository) Records(ctx context.Context, uploadID string) ([]upload.Record, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("upload repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT ts_utc, value_kwh
FROM upload_records
WHERE upload_id = $1
ORDER BY ts_utc ASC`, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []upload.Record
	for rows.Next() {
		var record upload.Record
		if err := rows.Scan(&record.TimestampUTC, &record.Value); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func newUploadID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "upload-" + hex.EncodeToString(buf)
}
