package upload

import (
	"fmt"
	"sort"
	"time"
)

const (
	// maxMissingReported caps the number of missing_interval findings.
	maxMissingReported = 10
	interval           = IntervalMinutes * time.Minute
)

// ValidateIntervals checks the cross-row invariants of a fully parsed upload:
// no duplicate timestamps outside the autumn DST fold window, every timestamp
// on the 15-minute grid, and no gaps between the first and last reading.
// It runs only after row parsing succeeded with zero errors, and itself
// accumulates findings across all three checks.
func ValidateIntervals(rows []RawRow) []ParsingError {
	if len(rows) == 0 {
		return []ParsingError{{
			Code:    CodeEmptyData,
			Message: "no quarter-hour readings found",
		}}
	}

	locals := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		locals = append(locals, row.Local)
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i].Before(locals[j]) })

	var errs []ParsingError

	seen := make(map[int64]int, len(locals))
	for _, ts := range locals {
		seen[ts.Unix()]++
	}
	reported := make(map[int64]bool)
	for _, ts := range locals {
		key := ts.Unix()
		if seen[key] < 2 || reported[key] {
			continue
		}
		reported[key] = true
		if dstFoldWindow(ts) {
			// The one-hour fold at the autumn transition legitimately
			// repeats wall-clock quarters.
			continue
		}
		errs = append(errs, ParsingError{
			Code:    CodeDuplicateInterval,
			Message: fmt.Sprintf("duplicate quarter-hour: %s", ts.Format(time.RFC3339)),
		})
	}

	for _, ts := range locals {
		if ts.Minute()%IntervalMinutes != 0 || ts.Second() != 0 {
			errs = append(errs, ParsingError{
				Code:    CodeInvalidInterval,
				Message: fmt.Sprintf("timestamp not on a 15-minute boundary: %s", ts.Format(time.RFC3339)),
			})
			break
		}
	}

	errs = append(errs, missingIntervals(locals, seen)...)
	return errs
}

// dstFoldWindow reports whether ts falls in the hardcoded window around the
// autumn daylight-saving transition (late October).
func dstFoldWindow(ts time.Time) bool {
	return ts.Month() == time.October && ts.Day() >= 25
}

func missingIntervals(locals []time.Time, seen map[int64]int) []ParsingError {
	start := locals[0]
	end := locals[len(locals)-1]

	expected := 0
	var missing []time.Time
	for current := start; !current.After(end); current = current.Add(interval) {
		expected++
		if _, ok := seen[current.Unix()]; !ok {
			missing = append(missing, current)
		}
	}

	// More than half the grid absent means the file is too sparse for gap
	// reporting to be meaningful.
	if 2*len(missing) > expected {
		return nil
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i].Before(missing[j]) })
	if len(missing) > maxMissingReported {
		missing = missing[:maxMissingReported]
	}
	errs := make([]ParsingError, 0, len(missing))
	for _, ts := range missing {
		errs = append(errs, ParsingError{
			Code:    CodeMissingInterval,
			Message: fmt.Sprintf("missing quarter-hour: %s", ts.Format(time.RFC3339)),
		})
	}
	return errs
}
