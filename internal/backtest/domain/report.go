package backtest

// Report compares actual cost against a flat reference price, with
// period-bucketed breakdowns for both.
type Report struct {
	TotalCost      float64
	ReferenceCost  float64
	Difference     float64
	DifferencePct  float64
	Costs          map[PeriodKey]float64
	ReferenceCosts map[PeriodKey]float64
}

// BuildReport totals the quarter costs, prices the same consumption at the
// flat reference price, and buckets both by period.
func BuildReport(costs []QuarterCost, referencePrice float64, period Period) (Report, error) {
	total := TotalCost(costs)

	reference := make([]QuarterCost, 0, len(costs))
	var referenceTotal float64
	for _, item := range costs {
		cost := item.ConsumptionKWh * referencePrice
		referenceTotal += cost
		reference = append(reference, QuarterCost{
			Timestamp:      item.Timestamp,
			ConsumptionKWh: item.ConsumptionKWh,
			TariffPrice:    referencePrice,
			TotalCost:      cost,
		})
	}

	difference := total - referenceTotal
	pct := 0.0
	if referenceTotal != 0 {
		pct = difference / referenceTotal * 100
	}

	aggregated, err := AggregateCosts(costs, period)
	if err != nil {
		return Report{}, err
	}
	aggregatedReference, err := AggregateCosts(reference, period)
	if err != nil {
		return Report{}, err
	}

	return Report{
		TotalCost:      total,
		ReferenceCost:  referenceTotal,
		Difference:     difference,
		DifferencePct:  pct,
		Costs:          aggregated,
		ReferenceCosts: aggregatedReference,
	}, nil
}
