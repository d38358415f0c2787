package tariff

import "time"

// Window is the daily peak window on local hours, half-open:
// peak when StartHour <= hour < EndHour.
type Window struct {
	StartHour int
	EndHour   int
}

// NewWindow validates and constructs a peak window.
func NewWindow(startHour, endHour int) (Window, error) {
	if startHour < 0 || startHour > 23 || endHour < 1 || endHour > 24 || endHour <= startHour {
		return Window{}, ErrInvalidWindow
	}
	return Window{StartHour: startHour, EndHour: endHour}, nil
}

// Contains reports whether local falls inside the peak window.
func (w Window) Contains(local time.Time) bool {
	hour := local.Hour()
	return w.StartHour <= hour && hour < w.EndHour
}

// Pricing holds the configured per-kWh prices.
type Pricing struct {
	OffPeakPrice float64
	PeakPrice    float64
	Surcharge    float64
}

// Validate checks price ranges.
func (p Pricing) Validate() error {
	if p.OffPeakPrice < 0 || p.PeakPrice < 0 || p.Surcharge < 0 {
		return ErrNegativePrice
	}
	return nil
}

// BuildForConsumption derives one tariff per consumption timestamp: the
// timestamp is converted to loc and classified against the peak window, then
// priced as base plus flat surcharge.
func BuildForConsumption(consumption []ConsumptionRecord, loc *time.Location, window Window, pricing Pricing) Series {
	tariffs := make([]Tariff, 0, len(consumption))
	for _, record := range consumption {
		base := pricing.OffPeakPrice
		if window.Contains(record.Timestamp.In(loc)) {
			base = pricing.PeakPrice
		}
		tariffs = append(tariffs, Tariff{
			Timestamp: record.Timestamp,
			BasePrice: base,
			Surcharge: pricing.Surcharge,
		})
	}
	return NewSeries(tariffs)
}

// PeakShare returns the consumption-weighted share of energy inside the peak
// window, 0 when there is no consumption at all.
func PeakShare(consumption []ConsumptionRecord, loc *time.Location, window Window) float64 {
	var peak, overall float64
	for _, record := range consumption {
		if window.Contains(record.Timestamp.In(loc)) {
			peak += record.ConsumptionKWh
		}
		overall += record.ConsumptionKWh
	}
	if overall == 0 {
		return 0
	}
	return peak / overall
}
