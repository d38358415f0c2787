package upload

import "time"

// IntervalMinutes is the native resolution of the consumption series.
const IntervalMinutes = 15

// RawRow is one source record before cross-row validation: the wall-clock
// timestamp in the source zone, the consumption value and the originating
// 1-based row number.
type RawRow struct {
	Local time.Time
	Value float64
	Row   int
}

// Record is one validated quarter-hour of the output series.
type Record struct {
	TimestampUTC time.Time
	Value        float64
}

// ParsedUpload is the immutable result of a successful ingestion. Series keeps
// the original row order, which is not necessarily timestamp order.
type ParsedUpload struct {
	RawPath         string
	Timezone        string
	IntervalMinutes int
	Series          []Record
}
