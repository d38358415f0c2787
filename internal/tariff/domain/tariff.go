package tariff

import "time"

// Tariff is the price applied to one quarter-hour.
type Tariff struct {
	Timestamp time.Time
	BasePrice float64
	Surcharge float64
}

// TotalPrice is the effective price per kWh.
func (t Tariff) TotalPrice() float64 {
	return t.BasePrice + t.Surcharge
}

// ConsumptionRecord is one validated quarter-hour of consumption.
type ConsumptionRecord struct {
	Timestamp      time.Time
	ConsumptionKWh float64
}

// Series is a tariff lookup keyed by exact timestamp. There is no
// interpolation; a lookup either hits an entry or misses.
type Series struct {
	byInstant map[int64]Tariff
}

// NewSeries builds a series from tariffs; a later tariff for the same
// timestamp overwrites an earlier one.
func NewSeries(tariffs []Tariff) Series {
	byInstant := make(map[int64]Tariff, len(tariffs))
	for _, t := range tariffs {
		byInstant[t.Timestamp.UnixNano()] = t
	}
	return Series{byInstant: byInstant}
}

// Get returns the tariff at exactly ts.
func (s Series) Get(ts time.Time) (Tariff, bool) {
	t, ok := s.byInstant[ts.UnixNano()]
	return t, ok
}

// Len returns the number of distinct timestamps.
func (s Series) Len() int { return len(s.byInstant) }
