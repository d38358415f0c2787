package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	tariff "energy-backtest/internal/tariff/domain"
)

// Config defines the pricing model used to backtest an upload.
type Config struct {
	Timezone       string  `yaml:"timezone"`
	OffPeakPrice   float64 `yaml:"offpeak_eur_per_kwh"`
	PeakPrice      float64 `yaml:"peak_eur_per_kwh"`
	Surcharge      float64 `yaml:"surcharge_eur_per_kwh"`
	PeakStartHour  int     `yaml:"peak_start_hour"`
	PeakEndHour    int     `yaml:"peak_end_hour"`
	ReferencePrice float64 `yaml:"reference_eur_per_kwh"`
}

// LoadConfig loads pricing config from yaml or env. Defaults match the
// Belgian residential model the tool was built for.
func LoadConfig() (Config, error) {
	cfg := Config{
		Timezone:       getenvDefault("PRICING_TIMEZONE", "Europe/Brussels"),
		OffPeakPrice:   getenvFloatDefault("PRICING_OFFPEAK_EUR_PER_KWH", 0.18),
		PeakPrice:      getenvFloatDefault("PRICING_PEAK_EUR_PER_KWH", 0.28),
		Surcharge:      getenvFloatDefault("PRICING_SURCHARGE_EUR_PER_KWH", 0.02),
		PeakStartHour:  getenvIntDefault("PRICING_PEAK_START_HOUR", 7),
		PeakEndHour:    getenvIntDefault("PRICING_PEAK_END_HOUR", 22),
		ReferencePrice: getenvFloatDefault("PRICING_REFERENCE_EUR_PER_KWH", 0.30),
	}

	if path := os.Getenv("PRICING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks price ranges and window bounds.
func (c Config) Validate() error {
	pricing := tariff.Pricing{
		OffPeakPrice: c.OffPeakPrice,
		PeakPrice:    c.PeakPrice,
		Surcharge:    c.Surcharge,
	}
	if err := pricing.Validate(); err != nil {
		return err
	}
	if c.ReferencePrice < 0 {
		return tariff.ErrNegativePrice
	}
	_, err := tariff.NewWindow(c.PeakStartHour, c.PeakEndHour)
	return err
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
