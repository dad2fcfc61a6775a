package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/clinic"
	"github.com/vetdesk/posapi/internal/config"
)

// Ops tool: run a variant search against the clinic backend and print the
// normalized results. Handy for checking credentials and wire-shape drift.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <search term>\n", os.Args[0])
		os.Exit(1)
	}
	term := os.Args[1]

	// Load configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := clinic.NewClient(cfg.Clinic, logger)

	fmt.Printf("Searching %q on %s...\n", term, cfg.Clinic.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	variants, err := client.SearchVariants(ctx, term, cfg.POS.SearchPageSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d variants:\n", len(variants))
	for _, v := range variants {
		fmt.Printf("  %-12s %s (%s)  price=%s stock=%d barcode=%s\n",
			v.ID, v.ProductName, v.VariantName, v.SellPrice.String(), v.Stock, v.Barcode)
	}
}
