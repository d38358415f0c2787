package tariff

import "errors"

var (
	// ErrNegativePrice is returned when a configured price is negative.
	ErrNegativePrice = errors.New("tariff: negative price")
	// ErrInvalidWindow is returned when the peak window hours are out of range.
	ErrInvalidWindow = errors.New("tariff: invalid peak window")
)
