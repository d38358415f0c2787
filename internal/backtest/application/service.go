package application

import (
	"time"

	backtest "energy-backtest/internal/backtest/domain"
	tariff "energy-backtest/internal/tariff/domain"
)

// Result is the outcome of one backtest run.
type Result struct {
	Report    backtest.Report
	PeakShare float64
}

// Service runs the tariff-matching and cost-aggregation half of the pipeline
// on a validated consumption series.
type Service struct {
	cfg    Config
	loc    *time.Location
	window tariff.Window
}

// NewService constructs the service from a validated pricing config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	window, err := tariff.NewWindow(cfg.PeakStartHour, cfg.PeakEndHour)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, loc: loc, window: window}, nil
}

// Run builds per-timestamp tariffs for the consumption, prices it with the
// reference price as fallback, and aggregates the result by period.
func (s *Service) Run(consumption []tariff.ConsumptionRecord, referencePrice float64, period backtest.Period) (Result, error) {
	pricing := tariff.Pricing{
		OffPeakPrice: s.cfg.OffPeakPrice,
		PeakPrice:    s.cfg.PeakPrice,
		Surcharge:    s.cfg.Surcharge,
	}
	tariffs := tariff.BuildForConsumption(consumption, s.loc, s.window, pricing)

	costs, err := backtest.CalculateQuarterCosts(consumption, tariffs, backtest.WithFallbackPrice(referencePrice))
	if err != nil {
		return Result{}, err
	}
	report, err := backtest.BuildReport(costs, referencePrice, period)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Report:    report,
		PeakShare: tariff.PeakShare(consumption, s.loc, s.window),
	}, nil
}
