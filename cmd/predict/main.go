package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/courtiq/tennis-predictor/internal/app"
)

func main() {
	dateFlag := flag.String("date", "", "date to predict (YYYY-MM-DD, default today)")
	flag.Parse()

	ctx := context.Background()
	a, err := app.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if *dateFlag != "" {
		if date, err = time.Parse("2006-01-02", *dateFlag); err != nil {
			fmt.Fprintf(os.Stderr, "bad -date: %v\n", err)
			os.Exit(1)
		}
	}

	result, err := a.Predictor.PredictDate(ctx, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prediction run failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("model %d scored %d match(es) for %s (%d skipped)\n",
		result.ModelID, result.Matches, date.Format("2006-01-02"), result.Skipped)
	for _, p := range result.Predictions {
		fmt.Printf("  %-45s -> %s (%.1f%%)\n", p.Matchup, p.PredictedWinner, p.Confidence*100)
	}
}
