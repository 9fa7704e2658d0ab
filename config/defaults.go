package config

import (
	"github.com/bcdannyboy/optionpricer/benchmark"
	"github.com/bcdannyboy/optionpricer/pricers"
)

// Default values for optional configuration fields.
const (
	DefaultType       = "call"
	DefaultSamples    = 100_000
	DefaultBatchSize  = pricers.DefaultBatchSize
	DefaultWorkers    = 1
	DefaultIterations = benchmark.DefaultIterations
	DefaultOutput     = "benchmark.json"
	DefaultLogLevel   = "info"
)

func (c *Config) applyDefaults() {
	if c.Instrument.Type == "" {
		c.Instrument.Type = DefaultType
	}

	if c.Simulation.Samples == 0 {
		c.Simulation.Samples = DefaultSamples
	}
	if c.Simulation.BatchSize == 0 {
		c.Simulation.BatchSize = DefaultBatchSize
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = DefaultWorkers
	}

	if c.Benchmark.Iterations == 0 {
		c.Benchmark.Iterations = DefaultIterations
	}
	if c.Benchmark.Output == "" {
		c.Benchmark.Output = DefaultOutput
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
