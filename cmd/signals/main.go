package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nketiah1717/openminerals/pkg/feed"
	"github.com/nketiah1717/openminerals/pkg/marketdata"
	"github.com/nketiah1717/openminerals/pkg/signal"
)

const (
	appName    = "SignalGenerator"
	appVersion = "1.0.0"
)

var (
	// Command line flags
	configFile = flag.String("config", "./config/signals.yaml", "Configuration file path")
	legA       = flag.String("a", "", "Leg A instrument (overrides config)")
	legB       = flag.String("b", "", "Leg B instrument (overrides config)")
	window     = flag.Int("window", 0, "Rolling window length (overrides config)")
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
	config, err := signal.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("[Main] Failed to load config: %v", err)
	}

	if *legA != "" {
		config.Pair.A = *legA
		log.Printf("[Main] Leg A overridden: %s", *legA)
	}
	if *legB != "" {
		config.Pair.B = *legB
		log.Printf("[Main] Leg B overridden: %s", *legB)
	}
	if *window > 0 {
		config.Pair.Window = *window
		log.Printf("[Main] Window overridden: %d", *window)
	}

	table, err := marketdata.LoadCSV(config.Data.QuotesPath)
	if err != nil {
		log.Fatalf("[Main] Failed to load quotes: %v", err)
	}
	log.Printf("[Main] Loaded %d quotes from %s", table.Len(), config.Data.QuotesPath)

	sigFeed, err := signal.Generate(table, config.GeneratorConfig())
	if err != nil {
		log.Fatalf("[Main] Signal generation failed: %v", err)
	}
	log.Printf("[Main] Generated %d signal rows for %s vs %s", len(sigFeed.Rows), sigFeed.A, sigFeed.B)

	outPath := filepath.Join(config.Output.ResultDir, signal.FeedFileName(sigFeed.A, sigFeed.B))
	if err := signal.WriteCSV(outPath, sigFeed); err != nil {
		log.Fatalf("[Main] Failed to write signal feed: %v", err)
	}
	log.Printf("[Main] Signal feed saved to: %s", outPath)

	if config.Feed.Enabled {
		publisher, err := feed.NewPublisher(config.Feed.NATSAddr, sigFeed.A, sigFeed.B)
		if err != nil {
			log.Fatalf("[Main] Failed to connect publisher: %v", err)
		}
		defer publisher.Close()

		if err := publisher.PublishSignals(sigFeed); err != nil {
			log.Fatalf("[Main] Failed to publish signals: %v", err)
		}
	}

	log.Println("[Main] Signal generation completed successfully!")
}

func printBanner() {
	fmt.Println("========================================")
	fmt.Printf("%s v%s\n", appName, appVersion)
	fmt.Println("Rolling z-score signal generation")
	fmt.Println("========================================")
}

func printHelp() {
	fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate signals for the configured pair")
	fmt.Println("  ./signals -config config/signals.yaml")
	fmt.Println()
	fmt.Println("  # Pick another pair without editing the config")
	fmt.Println("  ./signals -config config/signals.yaml -a lme_0 -b shfe_3 -window 120")
	fmt.Println()
}
