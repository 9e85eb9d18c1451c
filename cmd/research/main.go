package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nketiah1717/openminerals/pkg/marketdata"
	"github.com/nketiah1717/openminerals/pkg/research"
)

const (
	appName    = "PairResearch"
	appVersion = "1.0.0"
)

var (
	// Command line flags
	configFile = flag.String("config", "./config/research.yaml", "Configuration file path")
	pairsPath  = flag.String("output", "", "Pairs output path (overrides config)")
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
	config, err := research.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("[Main] Failed to load config: %v", err)
	}

	if *pairsPath != "" {
		config.Output.PairsPath = *pairsPath
		log.Printf("[Main] Pairs output overridden: %s", *pairsPath)
	}

	table, err := loadQuotes(config)
	if err != nil {
		log.Fatalf("[Main] Failed to load quotes: %v", err)
	}
	log.Printf("[Main] Loaded %d quotes across %d instruments", table.Len(), len(table.Instruments()))

	matrix := research.BuildReturnMatrix(table)
	pairs := research.FindCointegratedPairs(matrix, config.Discovery)
	log.Printf("[Main] Found %d candidate pairs", len(pairs))

	if config.Output.PairsPath != "" {
		if err := research.WritePairsCSV(config.Output.PairsPath, pairs); err != nil {
			log.Fatalf("[Main] Failed to write pairs: %v", err)
		}
		log.Printf("[Main] Pairs saved to: %s", config.Output.PairsPath)
	}

	printTopPairs(pairs, config.Output.GetTopN())
}

// loadQuotes reads pre-normalized quotes, or raw quotes plus FX rates to
// normalize on the fly when quotes_path is not set.
func loadQuotes(config *research.Config) (*marketdata.Table, error) {
	if config.Data.QuotesPath != "" {
		return marketdata.LoadCSV(config.Data.QuotesPath)
	}

	raw, err := marketdata.LoadRawCSV(config.Data.RawPath)
	if err != nil {
		return nil, err
	}
	fx, err := marketdata.LoadFXCSV(config.Data.FXPath)
	if err != nil {
		return nil, err
	}

	table, err := marketdata.Normalize(raw, fx, config.Normalize)
	if err != nil {
		return nil, err
	}

	if config.Output.NormalizedPath != "" {
		if err := marketdata.WriteCSV(config.Output.NormalizedPath, table); err != nil {
			return nil, err
		}
		log.Printf("[Main] Normalized quotes saved to: %s", config.Output.NormalizedPath)
	}

	return table, nil
}

func printTopPairs(pairs []research.CandidatePair, topN int) {
	if len(pairs) == 0 {
		fmt.Println("\nNo cointegrated pairs found.")
		return
	}
	if topN > len(pairs) {
		topN = len(pairs)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Top %d pairs by p-value\n", topN)
	fmt.Println("========================================")
	fmt.Printf("%-10s %-10s %8s %8s %10s %10s\n", "A", "B", "corr", "beta", "resid_std", "pval")
	for _, pair := range pairs[:topN] {
		fmt.Printf("%-10s %-10s %8.4f %8.4f %10.6f %10.4f\n",
			pair.A, pair.B, pair.Correlation, pair.Beta, pair.ResidualStd, pair.PValue)
	}
	fmt.Println("========================================")
}

func printBanner() {
	fmt.Println("========================================")
	fmt.Printf("%s v%s\n", appName, appVersion)
	fmt.Println("Cross-exchange pair discovery")
	fmt.Println("========================================")
}

func printHelp() {
	fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Discover pairs from normalized quotes")
	fmt.Println("  ./research -config config/research.yaml")
	fmt.Println()
	fmt.Println("  # Write the candidate table somewhere else")
	fmt.Println("  ./research -config config/research.yaml -output results/pairs.csv")
	fmt.Println()
}
