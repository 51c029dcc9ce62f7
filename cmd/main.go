package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"listing-extractor/extractor"
	"listing-extractor/internal/listing"
	"listing-extractor/internal/types"
	"listing-extractor/utils"
)

type cliFlags struct {
	input             string
	output            string
	csv               bool
	timeout           time.Duration
	navigationTimeout time.Duration
	settleDelay       time.Duration
	concurrent        int
	noSandbox         bool
	httpOnly          bool
	verbose           bool
	pricing           listing.Pricing
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	if err := newRootCmd(&cliFlags{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listing-extractor [urls...]",
		Short: "Extract product listings from Mercari, Yahoo Auctions, Rakuten, Amazon and generic pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
		SilenceUsage: true,
	}

	defaults := types.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "File with one URL per line")
	f.StringVarP(&flags.output, "output", "o", "", "Output file path (default: stdout)")
	f.BoolVar(&flags.csv, "csv", false, "Write priced listings as CSV instead of JSON results")
	f.DurationVar(&flags.timeout, "timeout", defaults.Timeout, "Deadline for one extraction attempt")
	f.DurationVar(&flags.navigationTimeout, "nav-timeout", defaults.NavigationTimeout, "Wait for DOM-ready before reading the page anyway")
	f.DurationVar(&flags.settleDelay, "settle", defaults.SettleDelay, "Delay for lazy content after navigation")
	f.IntVar(&flags.concurrent, "concurrent", defaults.MaxConcurrentRequests, "Maximum concurrent extractions")
	f.BoolVar(&flags.noSandbox, "no-sandbox", false, "Launch Chrome without its sandbox (containers)")
	f.BoolVar(&flags.httpOnly, "http-only", false, "Use HTTP requests only (disable headless browser)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	f.Float64Var(&flags.pricing.Margin, "margin", 0, "Profit margin added to the local price (CSV only)")
	f.Float64Var(&flags.pricing.ExchangeRate, "rate", 1, "Local currency units per target currency unit (CSV only)")
	f.Float64Var(&flags.pricing.FeeRate, "fee", 0, "Marketplace fee rate in [0, 1) (CSV only)")

	return cmd
}

func run(cmd *cobra.Command, flags *cliFlags, args []string) error {
	logger := utils.NewLogger(flags.verbose)

	urls, err := collectURLs(args, flags.input)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("at least one URL is required")
	}

	// Environment first, explicit flags win
	config := types.LoadConfig()
	applyFlags(cmd, flags, config)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if flags.csv {
		if err := flags.pricing.Validate(); err != nil {
			return fmt.Errorf("invalid pricing: %w", err)
		}
	}

	ext := extractor.NewExtractor(config, logger)
	defer ext.Close()

	startTime := time.Now()
	logger.Infof("Starting extraction for %d URLs", len(urls))

	results := ext.ExtractBatch(context.Background(), urls)

	succeeded := 0
	for _, result := range results {
		if result.OK() {
			succeeded++
		}
	}
	logger.Infof("Extraction completed in %v", time.Since(startTime))

	var out io.Writer = os.Stdout
	if flags.output != "" {
		file, err := os.Create(flags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if flags.csv {
		err = writeCSV(out, results, flags.pricing, logger)
	} else {
		err = writeJSON(out, results)
	}
	if err != nil {
		return err
	}
	if flags.output != "" {
		logger.Infof("Results written to: %s", flags.output)
	}

	// Print summary
	logger.Infof("Total URLs processed: %d", len(urls))
	logger.Infof("Listings extracted: %d", succeeded)
	logger.Infof("Failures: %d", len(urls)-succeeded)
	return nil
}

func applyFlags(cmd *cobra.Command, flags *cliFlags, config *types.Config) {
	f := cmd.Flags()
	if f.Changed("timeout") {
		config.Timeout = flags.timeout
	}
	if f.Changed("nav-timeout") {
		config.NavigationTimeout = flags.navigationTimeout
	}
	if f.Changed("settle") {
		config.SettleDelay = flags.settleDelay
	}
	if f.Changed("concurrent") {
		config.MaxConcurrentRequests = flags.concurrent
	}
	if f.Changed("no-sandbox") {
		config.NoSandbox = flags.noSandbox
	}
	if flags.httpOnly {
		config.UseHeadlessBrowser = false
	}
}

func collectURLs(args []string, input string) ([]string, error) {
	var urls []string
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			urls = append(urls, arg)
		}
	}

	if input == "" {
		return urls, nil
	}

	file, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return urls, nil
}

func writeJSON(w io.Writer, results []types.Result) error {
	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func writeCSV(w io.Writer, results []types.Result, pricing listing.Pricing, logger *logrus.Logger) error {
	records := make([]*listing.Record, 0, len(results))
	for _, result := range results {
		if !result.OK() {
			logger.Warnf("Skipping %s: %s", result.URL, result.Failure)
			continue
		}
		record, err := listing.NewRecord(result.Listing, pricing)
		if err != nil {
			logger.Warnf("Skipping %s: %v", result.URL, err)
			continue
		}
		records = append(records, record)
	}
	return listing.WriteCSV(w, records)
}
