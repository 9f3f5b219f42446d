package config

import (
	"errors"
	"fmt"
)

// FleetConfig bounds the number of units on a chart and seeds the
// prepopulated rows.
type FleetConfig struct {
	MinUnits     int          `yaml:"min_units" env-default:"1"`
	MaxUnits     int          `yaml:"max_units" env-default:"20"`
	DefaultUnits int          `yaml:"default_units" env-default:"15"`
	IDPrefix     string       `yaml:"id_prefix" env-default:"GT"`
	Defaults     SeedDefaults `yaml:"defaults"`
}

// SeedDefaults has no env-default tags: zero is a valid seed, so Load
// pre-fills the section from DefaultFleet instead.
type SeedDefaults struct {
	CurrentHours float64 `yaml:"current_hours"`
	CI           float64 `yaml:"ci"`
	HGPI         float64 `yaml:"hgpi"`
	MI           float64 `yaml:"mi"`
	RLE          float64 `yaml:"rle"`
}

func (f FleetConfig) Validate() error {
	if f.MinUnits < 1 {
		return errors.New("min_units must be at least 1")
	}
	if f.MaxUnits < f.MinUnits {
		return fmt.Errorf("max_units %d is below min_units %d", f.MaxUnits, f.MinUnits)
	}
	if f.DefaultUnits < f.MinUnits || f.DefaultUnits > f.MaxUnits {
		return fmt.Errorf("default_units %d is outside [%d, %d]", f.DefaultUnits, f.MinUnits, f.MaxUnits)
	}
	d := f.Defaults
	for _, v := range []float64{d.CurrentHours, d.CI, d.HGPI, d.MI, d.RLE} {
		if v < 0 {
			return errors.New("default hours must be non-negative")
		}
	}
	return nil
}

// DefaultFleet is the fleet section as it is read from an empty config.
func DefaultFleet() FleetConfig {
	return FleetConfig{
		MinUnits:     1,
		MaxUnits:     20,
		DefaultUnits: 15,
		IDPrefix:     "GT",
		Defaults: SeedDefaults{
			CurrentHours: 5000,
			CI:           12000,
			HGPI:         32000,
			MI:           64000,
			RLE:          200000,
		},
	}
}
