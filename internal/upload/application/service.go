package application

import (
	"errors"
	"time"

	upload "energy-backtest/internal/upload/domain"
	"energy-backtest/internal/upload/parser"
)

// RawStore persists the raw upload bytes and returns a handle used for error
// attribution; the pipeline never re-reads the stored bytes.
type RawStore interface {
	Store(data []byte, originalName string) (string, error)
}

// Service drives one upload through parsing, interval validation, and the
// conversion of the validated local-time series to UTC.
type Service struct {
	store    RawStore
	timezone string
	loc      *time.Location
}

// NewService constructs the upload service. timezone is the IANA zone naive
// timestamps are interpreted in.
func NewService(store RawStore, timezone string) (*Service, error) {
	if store == nil {
		return nil, errors.New("upload service: nil raw store")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, timezone: timezone, loc: loc}, nil
}

// Parse runs the full ingestion pipeline for one uploaded file. A rejected
// upload returns a *upload.ValidationError carrying every accumulated
// finding; any other error is infrastructural.
func (s *Service) Parse(data []byte, originalName string) (*upload.ParsedUpload, error) {
	rawPath, err := s.store.Store(data, originalName)
	if err != nil {
		return nil, err
	}

	rowParser, ok := parser.ForFilename(originalName, s.loc)
	if !ok {
		return nil, &upload.ValidationError{
			RawPath: rawPath,
			Errors: []upload.ParsingError{{
				Code:    upload.CodeUnsupportedFormat,
				Message: "only CSV or Excel (.xlsx) uploads are supported",
			}},
		}
	}

	rows, errs := rowParser.Parse(data)
	if len(errs) > 0 {
		return nil, &upload.ValidationError{RawPath: rawPath, Errors: errs}
	}

	// Cross-row validation runs only on a file with zero row-level findings.
	if verrs := upload.ValidateIntervals(rows); len(verrs) > 0 {
		return nil, &upload.ValidationError{RawPath: rawPath, Errors: verrs}
	}

	series := make([]upload.Record, 0, len(rows))
	for _, row := range rows {
		series = append(series, upload.Record{
			TimestampUTC: row.Local.UTC(),
			Value:        row.Value,
		})
	}
	return &upload.ParsedUpload{
		RawPath:         rawPath,
		Timezone:        s.timezone,
		IntervalMinutes: upload.IntervalMinutes,
		Series:          series,
	}, nil
}
