package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nketiah1717/openminerals/pkg/backtest"
	"github.com/nketiah1717/openminerals/pkg/feed"
	"github.com/nketiah1717/openminerals/pkg/signal"
)

const (
	appName    = "PairBacktest"
	appVersion = "1.0.0"
)

var (
	// Command line flags
	configFile = flag.String("config", "./config/backtest.yaml", "Configuration file path")
	outputDir  = flag.String("output", "", "Output directory (overrides config)")
	version    = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Print help and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	printBanner()

	log.Printf("[Main] Loading configuration from: %s", *configFile)
	config, err := backtest.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("[Main] Failed to load config: %v", err)
	}

	if *outputDir != "" {
		config.Output.ResultDir = *outputDir
		log.Printf("[Main] Output directory overridden: %s", *outputDir)
	}

	printConfigSummary(config)

	sigFeed, err := signal.ReadCSV(config.Data.SignalsPath, config.Pair.A, config.Pair.B)
	if err != nil {
		log.Fatalf("[Main] Failed to read signal feed: %v", err)
	}

	engine := backtest.NewEngine(config)
	result, err := engine.Run(sigFeed)
	if err != nil {
		log.Fatalf("[Main] Backtest failed: %v", err)
	}

	if config.Output.SaveLedger {
		path := filepath.Join(config.Output.ResultDir, backtest.LedgerFileName(result.A, result.B))
		if err := backtest.WriteLedgerCSV(path, result); err != nil {
			log.Fatalf("[Main] Failed to write ledger: %v", err)
		}
		log.Printf("[Main] Trade ledger saved to: %s", path)
	}

	if config.Output.GenerateReport {
		if err := backtest.GenerateMarkdown(config.Output.ResultDir, config, result); err != nil {
			log.Printf("[Main] Failed to generate markdown report: %v", err)
		}
	}

	if config.Feed.Enabled {
		publisher, err := feed.NewPublisher(config.Feed.NATSAddr, result.A, result.B)
		if err != nil {
			log.Fatalf("[Main] Failed to connect publisher: %v", err)
		}
		defer publisher.Close()

		if err := publisher.PublishTrades(result); err != nil {
			log.Fatalf("[Main] Failed to publish trades: %v", err)
		}
	}

	backtest.PrintSummary(result)
	log.Println("[Main] Backtest completed successfully!")
}

func printBanner() {
	fmt.Println("========================================")
	fmt.Printf("%s v%s\n", appName, appVersion)
	fmt.Println("Sequential pair trading simulation")
	fmt.Println("========================================")
}

func printHelp() {
	fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Run the configured backtest")
	fmt.Println("  ./backtest -config config/backtest.yaml")
	fmt.Println()
	fmt.Println("  # Redirect results")
	fmt.Println("  ./backtest -config config/backtest.yaml -output results/")
	fmt.Println()
}

func printConfigSummary(config *backtest.Config) {
	fmt.Println("\n========================================")
	fmt.Println("Configuration Summary")
	fmt.Println("========================================")
	fmt.Printf("Pair:              %s / %s\n", config.Pair.A, config.Pair.B)
	fmt.Printf("Signals Path:      %s\n", config.Data.SignalsPath)
	fmt.Printf("Entry Z-Score:     %.2f\n", config.GetEntryZScore())
	fmt.Printf("Exit Z-Score:      %.2f\n", config.GetExitZScore())
	fmt.Printf("Notional:          %.0f\n", config.GetNotional())
	fmt.Printf("Output Directory:  %s\n", config.Output.ResultDir)
	fmt.Println("========================================")
	fmt.Println()
}
