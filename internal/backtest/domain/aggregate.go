package backtest

import "time"

// Period selects the aggregation granularity.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// PeriodKey is the calendar bucket of one aggregate: "2024-01-02", "2024-01"
// or "2024" depending on the period. Keys use the calendar fields of the
// record's own stored timestamp; there is no time-zone reconversion here.
type PeriodKey string

// AggregateCosts sums costs per calendar bucket.
func AggregateCosts(costs []QuarterCost, period Period) (map[PeriodKey]float64, error) {
	totals := make(map[PeriodKey]float64)
	for _, item := range costs {
		key, err := periodKey(item.Timestamp, period)
		if err != nil {
			return nil, err
		}
		totals[key] += item.TotalCost
	}
	return totals, nil
}

func periodKey(ts time.Time, period Period) (PeriodKey, error) {
	switch period {
	case PeriodDay:
		return PeriodKey(ts.Format("2006-01-02")), nil
	case PeriodMonth:
		return PeriodKey(ts.Format("2006-01")), nil
	case PeriodYear:
		return PeriodKey(ts.Format("2006")), nil
	default:
		return "", ErrInvalidPeriod
	}
}
