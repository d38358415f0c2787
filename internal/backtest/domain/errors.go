package backtest

import "errors"

var (
	// ErrMissingTariff is returned when a consumption timestamp has no tariff
	// and no fallback price is configured. The whole calculation aborts;
	// there is no partial result.
	ErrMissingTariff = errors.New("backtest: missing tariff")
	// ErrInvalidPeriod is returned for an unknown aggregation period.
	ErrInvalidPeriod = errors.New("backtest: period must be day, month, or year")
)
