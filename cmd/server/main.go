package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtiq/tennis-predictor/internal/app"
	"github.com/courtiq/tennis-predictor/internal/handlers"
	"github.com/courtiq/tennis-predictor/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	sugar := a.Logger.Sugar()

	h := handlers.New(handlers.Config{
		Postgres: a.Pool,
		Redis:    a.Redis,
		Logger:   a.Logger,
		CacheTTL: a.Cfg.ReportCacheTTL,

		Store:     a.Store,
		Predictor: a.Predictor,
		Trainer:   a.Trainer,
		Analyzer:  a.Analyzer,
		Estimator: a.Estimator,
	})

	sched := scheduler.New(a.Estimator, a.Predictor, a.Analyzer, a.Trainer, sugar)
	if err := sched.Register(scheduler.Schedules{
		Refresh: a.Cfg.RefreshSchedule,
		Predict: a.Cfg.PredictSchedule,
		Analyze: a.Cfg.AnalyzeSchedule,
		Train:   a.Cfg.TrainingSchedule,
	}); err != nil {
		sugar.Fatalw("failed to register scheduled jobs", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Cfg.Port),
		Handler:      handlers.NewRouter(h, a.Cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server listening", "port", a.Cfg.Port, "env", a.Cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown was not clean", "error", err)
	}
}
