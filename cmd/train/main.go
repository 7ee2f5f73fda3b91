package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/courtiq/tennis-predictor/internal/app"
	"github.com/courtiq/tennis-predictor/internal/trainer"
)

func main() {
	tune := flag.Bool("tune", false, "run randomized hyperparameter search with cross-validation")
	iterations := flag.Int("iterations", 10, "candidates to sample per model type when tuning")
	folds := flag.Int("folds", 3, "cross-validation folds when tuning")
	limit := flag.Int("limit", 0, "cap on training matches, newest first (0 = all)")
	flag.Parse()

	ctx := context.Background()
	a, err := app.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	result, err := a.Trainer.Run(ctx, trainer.Options{
		Limit:          *limit,
		Tune:           *tune,
		TuneIterations: *iterations,
		CVFolds:        *folds,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "training failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("trained %d candidate(s) on %d samples\n", len(result.Trained), result.Samples)
	for _, m := range result.Trained {
		marker := " "
		if m.ModelID == result.PromotedID {
			marker = "*"
		}
		fmt.Printf("%s model %d (%s): accuracy %.4f f1 %.4f\n",
			marker, m.ModelID, m.ModelType, m.Metrics.Accuracy, m.Metrics.F1)
	}
}
