package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/courtiq/tennis-predictor/internal/app"
	"github.com/courtiq/tennis-predictor/internal/features"
)

func main() {
	csvPath := flag.String("csv", "", "optional historical match export to load after schema creation")
	flag.Parse()

	ctx := context.Background()
	a, err := app.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Store.Init(ctx, features.Uniform().Map()); err != nil {
		fmt.Fprintf(os.Stderr, "schema init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("schema ready")

	if *csvPath != "" {
		result, err := a.Loader.LoadCSV(ctx, *csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "csv load failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("loaded %d match(es), skipped %d\n", result.Loaded, result.Skipped)

		fmt.Println("recomputing player statistics")
		if err := a.Estimator.RefreshAll(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "statistics refresh failed: %v\n", err)
			os.Exit(1)
		}
	}
}
