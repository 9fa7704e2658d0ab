package config

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bcdannyboy/optionpricer/instrument"
	"github.com/bcdannyboy/optionpricer/pricers"
)

// Spec converts the instrument section into an instrument.Spec.
func (c *Config) Spec() (instrument.Spec, error) {
	typ, err := instrument.ParseOptionType(c.Instrument.Type)
	if err != nil {
		return instrument.Spec{}, err
	}
	maturity, err := instrument.ParseMaturity(c.Instrument.Maturity)
	if err != nil {
		return instrument.Spec{}, err
	}
	return instrument.Spec{
		UnderlyingPrice: c.Instrument.Spot,
		Rate:            c.Instrument.Rate,
		Volatility:      c.Instrument.Volatility,
		Maturity:        maturity,
		Strike:          c.Instrument.Strike,
		Dividend:        c.Instrument.Dividend,
		Type:            typ,
	}, nil
}

// Valuation returns the configured valuation date, or now when none is set.
func (c *Config) Valuation(now time.Time) (time.Time, error) {
	if c.Instrument.ValuationDate == "" {
		return now, nil
	}
	return instrument.ParseMaturity(c.Instrument.ValuationDate)
}

// Kinds returns the pricers to run, all of them when none are listed.
func (c *Config) Kinds() ([]pricers.Kind, error) {
	if len(c.Benchmark.Pricers) == 0 {
		return append([]pricers.Kind(nil), pricers.Kinds...), nil
	}
	kinds := make([]pricers.Kind, 0, len(c.Benchmark.Pricers))
	seen := make(map[pricers.Kind]bool)
	for _, name := range c.Benchmark.Pricers {
		k, err := pricers.ParseKind(name)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// PricerOptions translates the simulation section into pricer options.
func (c *Config) PricerOptions(logger *zap.Logger) []pricers.Option {
	opts := []pricers.Option{
		pricers.WithBatchSize(c.Simulation.BatchSize),
		pricers.WithWorkers(c.Simulation.Workers),
		pricers.WithChunkSize(c.Simulation.ChunkSize),
		pricers.WithLogger(logger),
	}
	if c.Simulation.Seed != nil {
		opts = append(opts, pricers.WithSeed(*c.Simulation.Seed))
	}
	return opts
}

// NewLogger builds a zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	var level zapcore.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
