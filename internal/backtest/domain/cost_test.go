package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	tariff "energy-backtest/internal/tariff/domain"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func quarterSeries(start time.Time, n int, kwh float64) []tariff.ConsumptionRecord {
	records := make([]tariff.ConsumptionRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, tariff.ConsumptionRecord{
			Timestamp:      start.Add(time.Duration(i) * 15 * time.Minute),
			ConsumptionKWh: kwh,
		})
	}
	return records
}

func flatTariffs(records []tariff.ConsumptionRecord, price float64) tariff.Series {
	tariffs := make([]tariff.Tariff, 0, len(records))
	for _, record := range records {
		tariffs = append(tariffs, tariff.Tariff{Timestamp: record.Timestamp, BasePrice: price})
	}
	return tariff.NewSeries(tariffs)
}

func TestCalculateQuarterCosts(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	consumption := quarterSeries(start, 4, 0.5)
	costs, err := CalculateQuarterCosts(consumption, flatTariffs(consumption, 0.20))
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(costs) != 4 {
		t.Fatalf("expected 4 costs, got %d", len(costs))
	}
	for i, cost := range costs {
		if !cost.Timestamp.Equal(consumption[i].Timestamp) {
			t.Fatalf("input order must be preserved at %d", i)
		}
		if !approx(cost.TotalCost, 0.10) {
			t.Fatalf("expected 0.10 per quarter, got %v", cost.TotalCost)
		}
	}
	if !approx(TotalCost(costs), 0.40) {
		t.Fatalf("expected total 0.40, got %v", TotalCost(costs))
	}
}

func TestCalculateQuarterCostsMissingTariff(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	consumption := quarterSeries(start, 2, 1)
	partial := flatTariffs(consumption[:1], 0.20)

	_, err := CalculateQuarterCosts(consumption, partial)
	if !errors.Is(err, ErrMissingTariff) {
		t.Fatalf("expected ErrMissingTariff, got %v", err)
	}

	costs, err := CalculateQuarterCosts(consumption, partial, WithFallbackPrice(0.30))
	if err != nil {
		t.Fatalf("fallback must cover the gap: %v", err)
	}
	if !approx(costs[0].TariffPrice, 0.20) || !approx(costs[1].TariffPrice, 0.30) {
		t.Fatalf("unexpected prices: %v, %v", costs[0].TariffPrice, costs[1].TariffPrice)
	}
}

func TestCalculateQuarterCostsIdempotent(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	consumption := quarterSeries(start, 8, 0.25)
	series := flatTariffs(consumption, 0.22)

	first, err := CalculateQuarterCosts(consumption, series)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := CalculateQuarterCosts(consumption, series)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if TotalCost(first) != TotalCost(second) {
		t.Fatalf("same input must give same totals: %v vs %v", TotalCost(first), TotalCost(second))
	}
}

func TestAggregateCosts(t *testing.T) {
	costs := []QuarterCost{
		{Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), TotalCost: 1},
		{Timestamp: time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC), TotalCost: 2},
		{Timestamp: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), TotalCost: 4},
	}

	monthly, err := AggregateCosts(costs, PeriodMonth)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(monthly) != 2 || !approx(monthly["2024-01"], 3) || !approx(monthly["2024-02"], 4) {
		t.Fatalf("unexpected monthly buckets: %v", monthly)
	}

	daily, err := AggregateCosts(costs, PeriodDay)
	if err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}
	if len(daily) != 3 || !approx(daily["2024-01-15"], 1) {
		t.Fatalf("unexpected daily buckets: %v", daily)
	}

	yearly, err := AggregateCosts(costs, PeriodYear)
	if err != nil {
		t.Fatalf("aggregate yearly: %v", err)
	}
	if len(yearly) != 1 || !approx(yearly["2024"], 7) {
		t.Fatalf("unexpected yearly buckets: %v", yearly)
	}

	if _, err := AggregateCosts(costs, Period("week")); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
