package main

import (
	"context"
	"fmt"
	"os"

	"github.com/courtiq/tennis-predictor/internal/app"
)

func main() {
	ctx := context.Background()
	a, err := app.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	result, err := a.Analyzer.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("resolved %d prediction(s), wrote %d rolling metric window(s)\n",
		result.Resolved, result.MetricsWritten)
}
