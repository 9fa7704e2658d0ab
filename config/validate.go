package config

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/bcdannyboy/optionpricer/instrument"
	"github.com/bcdannyboy/optionpricer/pricers"
)

// Validate checks that all required fields are set and values are valid.
// Instrument values get their full check from instrument.New.
func (c *Config) Validate() error {
	if c.Instrument.Maturity == "" {
		return errors.New("instrument.maturity is required")
	}
	if _, err := instrument.ParseMaturity(c.Instrument.Maturity); err != nil {
		return errors.Errorf("instrument.maturity %q is not MM/DD/YYYY", c.Instrument.Maturity)
	}
	if c.Instrument.ValuationDate != "" {
		if _, err := instrument.ParseMaturity(c.Instrument.ValuationDate); err != nil {
			return errors.Errorf("instrument.valuation_date %q is not MM/DD/YYYY", c.Instrument.ValuationDate)
		}
	}
	if _, err := instrument.ParseOptionType(c.Instrument.Type); err != nil {
		return errors.Errorf("instrument.type %q must be call or put", c.Instrument.Type)
	}
	if c.Instrument.Strike <= 0 {
		return errors.New("instrument.strike must be > 0")
	}

	if c.Simulation.Samples < 1 {
		return errors.New("simulation.samples must be >= 1")
	}
	if c.Simulation.BatchSize < 1 {
		return errors.New("simulation.batch_size must be >= 1")
	}
	if c.Simulation.Workers < 1 {
		return errors.New("simulation.workers must be >= 1")
	}
	if c.Simulation.ChunkSize < 0 {
		return errors.New("simulation.chunk_size must be >= 0")
	}

	if c.Benchmark.Iterations < 1 {
		return errors.New("benchmark.iterations must be >= 1")
	}
	for _, name := range c.Benchmark.Pricers {
		if _, err := pricers.ParseKind(name); err != nil {
			return errors.Errorf("benchmark.pricers: unknown pricer %q", name)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
