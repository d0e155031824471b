package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/joao-fontenele/cardflow/internal/cards"
	"github.com/joao-fontenele/cardflow/internal/telemetry"
)

// recalc repairs drifted total_orders counters from the authoritative
// sum over existing orders. Run it for one card by id, or for every
// card with no arguments.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	flag.Parse()
	args := flag.Args()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	repo := cards.NewCardRepository(db)

	if len(args) > 0 {
		cardID := args[0]
		total, err := repo.Recalculate(ctx, cardID)
		if err != nil {
			logger.Error("recalculation failed", "error", err, "card_id", cardID)
			os.Exit(1)
		}
		logger.Info("card total_orders recalculated", "card_id", cardID, "total_orders", total)
		return
	}

	repaired, err := repo.RecalculateAll(ctx)
	if err != nil {
		logger.Error("recalculation failed", "error", err)
		os.Exit(1)
	}

	for _, id := range repaired {
		logger.Info("card total_orders repaired", "card_id", id)
	}
	logger.Info("recalculation complete", "repaired", len(repaired))
}
