// Package config loads the driver configuration from YAML with environment
// overrides.
package config

// Config is the root configuration of the pricing driver.
type Config struct {
	Instrument InstrumentConfig `yaml:"instrument"`
	Simulation SimulationConfig `yaml:"simulation"`
	Benchmark  BenchmarkConfig  `yaml:"benchmark"`
	Log        LogConfig        `yaml:"log"`
}

// InstrumentConfig describes the option to price. Dates use MM/DD/YYYY.
type InstrumentConfig struct {
	Spot          float64 `yaml:"spot"`
	Strike        float64 `yaml:"strike"`
	Rate          float64 `yaml:"rate"`
	Volatility    float64 `yaml:"volatility"`
	Dividend      float64 `yaml:"dividend"`
	Maturity      string  `yaml:"maturity"`
	Type          string  `yaml:"type"`
	ValuationDate string  `yaml:"valuation_date"` // empty means today
}

// SimulationConfig holds Monte Carlo settings shared by every simulated pricer.
type SimulationConfig struct {
	Samples   int     `yaml:"samples"`
	BatchSize int     `yaml:"batch_size"`
	Workers   int     `yaml:"workers"`
	ChunkSize int     `yaml:"chunk_size"`
	Seed      *uint64 `yaml:"seed"` // nil draws fresh randomness on every call
}

// BenchmarkConfig controls the timing run.
type BenchmarkConfig struct {
	Iterations int      `yaml:"iterations"`
	Parallel   bool     `yaml:"parallel"`
	Output     string   `yaml:"output"`
	Pricers    []string `yaml:"pricers"` // empty means all
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}
