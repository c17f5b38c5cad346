// Command bossim generates the 31,500 bottle distribution and claims bottles
// in rounds, printing the per-tier statistics after every round.
//
// Usage:
//
//	bossim --price-cents 9649600 --cap-cents 0 --simulate-steps 5 --claim-step 50
//
// Settings are read from bos.yaml, BOS_* environment variables (a .env file is
// loaded first) and finally the flags below.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kydenul/bos"
	"github.com/kydenul/bos/pricefeed"
	"github.com/kydenul/bos/simulation"
	"github.com/urfave/cli/v2"
)

const (
	appName    = "bossim"
	appVersion = "1.0.0"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the CLI writing tables to stdout and logs to stderr
func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      appName,
		Version:   appVersion,
		Usage:     "Generate the 31 500-bottle distribution and step-claim bottles, tracking tier statistics",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "price-cents",
				Usage: "BTC price in fiat cents",
				Value: bos.DefaultPriceCents,
			},
			&cli.Uint64Flag{
				Name:  "cap-cents",
				Usage: "Tier F budget cap in fiat cents, 0 for no cap",
			},
			&cli.IntFlag{
				Name:  "simulate-steps",
				Usage: "number of claiming rounds",
				Value: bos.DefaultSimulationSteps,
			},
			&cli.IntFlag{
				Name:  "claim-step",
				Usage: "bottles claimed per round",
				Value: bos.DefaultClaimStep,
			},
			&cli.BoolFlag{
				Name:  "live-price",
				Usage: "fetch the BTC price from the price feed, --price-cents becomes the fallback",
			},
			&cli.StringFlag{
				Name:  "currency",
				Usage: "fiat currency of price and cap",
				Value: bos.DefaultCurrency,
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for reproducible runs, 0 draws from crypto/rand",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c, stdout, stderr)
		},
	}
}

func run(c *cli.Context, stdout, stderr io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Warning: ignoring .env file: %v\n", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger := bos.NewZerologLoggerFromConfig(stderr, cfg.Log)
	monitor := bos.NewPerformanceMonitor()

	price, err := resolvePrice(c.Context, cfg, logger, monitor)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error fetching price: %v", err), 1)
	}

	generator := bos.NewGeneratorWithMonitor(logger, monitor)
	sessionSource := bos.NewSecureSource()
	if seed := cfg.Simulation.Seed; seed != 0 {
		generator.SetSourceFactory(func() bos.RandomSource { return bos.NewSeededSource(seed) })
		sessionSource = bos.NewSeededSource(seed + 1)
	}

	dist, err := generator.Generate(price, cfg.Generator.CapCents)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error generating distribution: %v", err), 1)
	}
	if err := bos.Verify(dist, price, cfg.Generator.CapCents); err != nil {
		return cli.Exit(fmt.Sprintf("Generated distribution is invalid: %v", err), 1)
	}

	fmt.Fprintf(stdout, "Generated distribution of %d bottles.\n", len(dist))

	session := simulation.NewSession(dist, sessionSource)
	session.SetLogger(logger)
	session.SetMonitor(monitor)

	currency := cfg.Generator.Currency
	if err := simulation.RenderTable(stdout, session.Stats(), price, currency,
		"Initial (no bottles claimed yet)"); err != nil {
		return err
	}

	step := cfg.Simulation.ClaimStep
	for i := 1; i <= cfg.Simulation.Steps; i++ {
		if _, err := session.Claim(step); err != nil {
			if errors.Is(err, bos.ErrNothingToClaim) {
				fmt.Fprintf(stdout, "\nEvery bottle is claimed, stopping after step %d.\n", i-1)
				break
			}
			return err
		}

		caption := fmt.Sprintf("After claiming %d bottles in step %d", step, i)
		if err := simulation.RenderTable(stdout, session.Stats(), price, currency, caption); err != nil {
			return err
		}
	}

	metrics := monitor.GetMetrics()
	logger.Debug("Session %s done: generations=%d claims=%d price_fetches=%d fallbacks=%d",
		session.ID, metrics.TotalGenerations, metrics.Claims, metrics.PriceFetches, metrics.PriceFallbacks)
	return nil
}

// loadConfig reads the config file and environment, then applies the flags
// the user set explicitly.
func loadConfig(c *cli.Context) (*bos.Config, error) {
	cm := bos.NewConfigManagerWithFile(c.String("config"))
	cfg, err := cm.LoadConfig()
	if err != nil {
		return nil, err
	}

	if c.IsSet("price-cents") {
		cfg.Generator.PriceCents = c.Uint64("price-cents")
	}
	if c.IsSet("cap-cents") {
		cfg.Generator.CapCents = c.Uint64("cap-cents")
	}
	if c.IsSet("currency") {
		cfg.Generator.Currency = c.String("currency")
	}
	if c.IsSet("simulate-steps") {
		cfg.Simulation.Steps = c.Int("simulate-steps")
	}
	if c.IsSet("claim-step") {
		cfg.Simulation.ClaimStep = c.Int("claim-step")
	}
	if c.IsSet("seed") {
		cfg.Simulation.Seed = c.Uint64("seed")
	}
	if c.Bool("live-price") {
		cfg.PriceFeed.Enabled = true
	}
	if c.IsSet("log-level") {
		if _, err := bos.ParseLogLevel(c.String("log-level")); err != nil {
			return nil, err
		}
		cfg.Log.Level = c.String("log-level")
	}

	// A zero price is reported by the generator itself
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePrice returns the configured price, or the live one when the price
// feed is enabled.
func resolvePrice(ctx context.Context, cfg *bos.Config, logger bos.Logger, monitor *bos.PerformanceMonitor) (uint64, error) {
	if !cfg.PriceFeed.Enabled {
		return cfg.Generator.PriceCents, nil
	}

	opts := pricefeed.FeedOptions{Logger: logger, Monitor: monitor}
	if cfg.Redis.Enabled {
		client := bos.NewRedisClientFromConfig(cfg.Redis)
		defer client.Close()
		opts.Redis = client
	}

	feed := pricefeed.NewFeed(cfg, opts)
	defer feed.Close()

	quote, err := feed.Price(ctx)
	if err != nil {
		return 0, err
	}

	logger.Info("Using BTC price %s from %s", bos.FormatFiat(quote.Cents, quote.Currency), quote.Source)
	return quote.Cents, nil
}
