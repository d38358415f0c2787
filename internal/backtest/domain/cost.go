package backtest

import (
	"fmt"
	"time"

	tariff "energy-backtest/internal/tariff/domain"
)

// QuarterCost is the computed cost of one quarter-hour, immutable once built.
type QuarterCost struct {
	Timestamp      time.Time
	ConsumptionKWh float64
	TariffPrice    float64
	TotalCost      float64
}

type costConfig struct {
	fallbackPrice float64
	hasFallback   bool
}

// CostOption configures the cost calculation.
type CostOption func(*costConfig)

// WithFallbackPrice substitutes a flat price for timestamps without an exact
// tariff match.
func WithFallbackPrice(price float64) CostOption {
	return func(c *costConfig) {
		c.fallbackPrice = price
		c.hasFallback = true
	}
}

// CalculateQuarterCosts matches every consumption record against the tariff
// series by exact timestamp and prices it. Output preserves input order.
func CalculateQuarterCosts(consumption []tariff.ConsumptionRecord, tariffs tariff.Series, opts ...CostOption) ([]QuarterCost, error) {
	var cfg costConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	costs := make([]QuarterCost, 0, len(consumption))
	for _, record := range consumption {
		price := cfg.fallbackPrice
		if t, ok := tariffs.Get(record.Timestamp); ok {
			price = t.TotalPrice()
		} else if !cfg.hasFallback {
			return nil, fmt.Errorf("%w for %s", ErrMissingTariff, record.Timestamp.Format(time.RFC3339))
		}
		costs = append(costs, QuarterCost{
			Timestamp:      record.Timestamp,
			ConsumptionKWh: record.ConsumptionKWh,
			TariffPrice:    price,
			TotalCost:      record.ConsumptionKWh * price,
		})
	}
	return costs, nil
}

// TotalCost sums the quarter costs.
func TotalCost(costs []QuarterCost) float64 {
	var total float64
	for _, item := range costs {
		total += item.TotalCost
	}
	return total
}
