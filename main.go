package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/benchmark"
	"github.com/bcdannyboy/optionpricer/config"
	"github.com/bcdannyboy/optionpricer/instrument"
	"github.com/bcdannyboy/optionpricer/pricers"
)

// Report is the JSON document written after a benchmark run.
type Report struct {
	Instrument instrument.Spec    `json:"instrument"`
	Valuation  string             `json:"valuation_date"`
	Samples    int                `json:"samples"`
	Iterations int                `json:"iterations"`
	Reference  float64            `json:"reference_price"`
	Results    benchmark.Report   `json:"results"`
	Errors     map[string]float64 `json:"errors"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	envFile := flag.String("env", ".env", "optional .env file with OPTIONPRICER_* overrides")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("Error loading %s: %v", *envFile, err)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("pricing run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logHost(logger)

	spec, err := cfg.Spec()
	if err != nil {
		return err
	}
	valuation, err := cfg.Valuation(time.Now())
	if err != nil {
		return err
	}
	inst, err := instrument.New(spec)
	if err != nil {
		return err
	}
	if err := inst.Validate(valuation); err != nil {
		return err
	}

	kinds, err := cfg.Kinds()
	if err != nil {
		return err
	}
	opts := cfg.PricerOptions(logger)
	ps := make([]pricers.Pricer, 0, len(kinds))
	for _, kind := range kinds {
		p, err := pricers.New(kind, inst, valuation, opts...)
		if err != nil {
			return err
		}
		ps = append(ps, p)
	}

	reference, err := referencePrice(inst, valuation)
	if err != nil {
		return err
	}

	samples := cfg.Simulation.Samples
	fmt.Printf("%s option S=%.2f K=%.2f r=%.4f q=%.4f sigma=%.4f maturity=%s valuation=%s\n",
		spec.Type, spec.UnderlyingPrice, spec.Strike, spec.Rate, spec.Dividend, spec.Volatility,
		spec.Maturity.Format(instrument.MaturityLayout), valuation.Format(instrument.MaturityLayout))
	fmt.Printf("Closed form price: %.6f\n", reference)

	for _, p := range ps {
		price, err := p.Calculate(ctx, samples)
		if err != nil {
			return err
		}
		fmt.Printf("%-20s %12.6f  (error %.6f)\n", p.Name(), price, math.Abs(price-reference))
	}

	results, err := runBenchmark(ctx, cfg, ps, logger)
	if err != nil {
		return err
	}
	errs := results.Errors(reference)
	printResults(results, errs)

	report := Report{
		Instrument: spec,
		Valuation:  valuation.Format(instrument.MaturityLayout),
		Samples:    samples,
		Iterations: cfg.Benchmark.Iterations,
		Reference:  reference,
		Results:    results,
		Errors:     errs,
	}
	jreport, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(cfg.Benchmark.Output, jreport, 0644); err != nil {
		return err
	}
	logger.Info("benchmark report written", zap.String("path", cfg.Benchmark.Output))
	return nil
}

func runBenchmark(ctx context.Context, cfg *config.Config, ps []pricers.Pricer, logger *zap.Logger) (benchmark.Report, error) {
	iterations := cfg.Benchmark.Iterations

	p := mpb.New(mpb.WithWidth(64))
	bars := make(map[string]*mpb.Bar, len(ps))
	for _, pr := range ps {
		bars[pr.Name()] = p.AddBar(int64(iterations),
			mpb.PrependDecorators(
				decor.Name(pr.Name(), decor.WCSyncSpaceR),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}

	results, err := benchmark.Compare(ctx, ps, cfg.Simulation.Samples, iterations,
		benchmark.WithParallel(cfg.Benchmark.Parallel),
		benchmark.WithLogger(logger),
		benchmark.WithIterationHook(func(name string, _ int) {
			bars[name].Increment()
		}),
	)
	if err != nil {
		for _, bar := range bars {
			bar.Abort(false)
		}
	}
	p.Wait()
	return results, err
}

func referencePrice(inst instrument.Instrument, valuation time.Time) (float64, error) {
	bs, err := pricers.NewBlackScholes(inst, valuation)
	if err != nil {
		return 0, err
	}
	return bs.Price()
}

func printResults(results benchmark.Report, errs map[string]float64) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return results[names[i]].Time < results[names[j]].Time
	})

	fmt.Printf("\n%-20s %12s %12s %12s %12s\n", "pricer", "time (s)", "price", "std dev", "error")
	for _, name := range names {
		r := results[name]
		fmt.Printf("%-20s %12.6f %12.6f %12.6f %12.6f\n", name, r.Time, r.Price, r.StdDev, errs[name])
	}
}

func logHost(logger *zap.Logger) {
	fields := []zap.Field{}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		fields = append(fields, zap.String("cpu", infos[0].ModelName))
	}
	if n, err := cpu.Counts(true); err == nil {
		fields = append(fields, zap.Int("logical_cores", n))
	}
	logger.Info("host", fields...)
}
