package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/courtiq/tennis-predictor/internal/app"
	"github.com/courtiq/tennis-predictor/internal/models"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: predict-match [flags] \"Player One\" \"Player Two\"\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	tournament := flag.String("tournament", "", "tournament name")
	series := flag.String("series", "", "tournament series (e.g. Grand Slam)")
	surface := flag.String("surface", "", "surface (Hard, Clay, Grass)")
	court := flag.String("court", "", "court type (Indoor, Outdoor)")
	round := flag.String("round", "", "round name")
	rank1 := flag.Int("rank1", 0, "override rank of player one")
	rank2 := flag.Int("rank2", 0, "override rank of player two")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
	}

	req := &models.CustomMatchRequest{
		Player1:    flag.Arg(0),
		Player2:    flag.Arg(1),
		Tournament: *tournament,
		Series:     *series,
		Surface:    *surface,
		CourtType:  *court,
		Round:      *round,
	}
	if *rank1 > 0 {
		req.Rank1 = rank1
	}
	if *rank2 > 0 {
		req.Rank2 = rank2
	}

	ctx := context.Background()
	a, err := app.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	resp, err := a.Predictor.PredictCustom(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prediction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s vs %s\n", resp.Player1, resp.Player2)
	fmt.Printf("predicted winner: %s\n", resp.PredictedWinner)
	fmt.Printf("win probability:  %.1f%%\n", resp.WinProbability*100)
	fmt.Printf("confidence:       %.1f%%\n", resp.Confidence*100)
	fmt.Printf("model:            %s %s\n", resp.ModelType, resp.ModelVersion)
}
