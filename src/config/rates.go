package config

import (
	"fmt"
	"os"

	"github.com/gogonoten/johotel/src/pricing"
	"github.com/gogonoten/johotel/src/types"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ratesFile is the YAML layout of RATES_FILE:
//
//	nightly:
//	  standard: 1000
//	  suite: 2750
//	weekend_surcharge: 0.15
type ratesFile struct {
	Nightly          map[string]string `yaml:"nightly"`
	WeekendSurcharge string            `yaml:"weekend_surcharge"`
}

// LoadRates overlays the file at path on the default rate table.
func LoadRates(path string) (pricing.RateTable, error) {
	rates := pricing.DefaultRates()
	data, err := os.ReadFile(path)
	if err != nil {
		return rates, err
	}
	var f ratesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return rates, fmt.Errorf("parse %s: %w", path, err)
	}

	for name, value := range f.Nightly {
		category, err := types.ParseRoomCategory(name)
		if err != nil {
			return rates, err
		}
		amount, err := parseAmount(value)
		if err != nil {
			return rates, fmt.Errorf("nightly rate for %s: %w", category, err)
		}
		rates.Nightly[category] = amount
	}
	if f.WeekendSurcharge != "" {
		surcharge, err := parseAmount(f.WeekendSurcharge)
		if err != nil {
			return rates, fmt.Errorf("weekend_surcharge: %w", err)
		}
		rates.WeekendSurcharge = surcharge
	}
	return rates, nil
}

// Rates returns the table from RATES_FILE, or nil when it is unset.
func Rates() (*pricing.RateTable, error) {
	path := os.Getenv("RATES_FILE")
	if path == "" {
		return nil, nil
	}
	rates, err := LoadRates(path)
	if err != nil {
		return nil, err
	}
	return &rates, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", s)
	}
	return d, nil
}
