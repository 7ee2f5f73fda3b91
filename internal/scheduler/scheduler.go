package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/analyzer"
	"github.com/courtiq/tennis-predictor/internal/predictor"
	"github.com/courtiq/tennis-predictor/internal/trainer"
)

// Estimator recomputes player statistics.
type Estimator interface {
	RefreshAll(ctx context.Context) error
}

// Predictor scores a date's eligible matches.
type Predictor interface {
	PredictDate(ctx context.Context, date time.Time) (*predictor.RunResult, error)
}

// Analyzer resolves predictions and rebuilds error windows.
type Analyzer interface {
	Run(ctx context.Context) (*analyzer.Result, error)
}

// Trainer runs the training protocol.
type Trainer interface {
	Run(ctx context.Context, opts trainer.Options) (*trainer.Result, error)
}

// Schedules are the cron expressions for the four recurring jobs.
type Schedules struct {
	Refresh string
	Predict string
	Analyze string
	Train   string
}

// Scheduler drives the daily pipeline: refresh statistics, predict today's
// matches, analyze yesterday's results, retrain weekly.
type Scheduler struct {
	cron      *cron.Cron
	estimator Estimator
	predictor Predictor
	analyzer  Analyzer
	trainer   Trainer
	logger    *zap.SugaredLogger
}

func New(estimator Estimator, pred Predictor, an Analyzer, tr Trainer, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		estimator: estimator,
		predictor: pred,
		analyzer:  an,
		trainer:   tr,
		logger:    logger,
	}
}

// Register adds the four jobs under their cron expressions.
func (s *Scheduler) Register(schedules Schedules) error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"refresh", schedules.Refresh, s.runRefresh},
		{"predict", schedules.Predict, s.runPredict},
		{"analyze", schedules.Analyze, s.runAnalyze},
		{"train", schedules.Train, s.runTrain},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.execute(job.name, job.run) }); err != nil {
			return err
		}
		s.logger.Infow("job scheduled", "job", job.name, "schedule", job.spec)
	}
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) execute(name string, run func(ctx context.Context) error) {
	start := time.Now()
	err := run(context.Background())
	elapsed := time.Since(start)

	jobDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		jobRuns.WithLabelValues(name, "error").Inc()
		s.logger.Errorw("scheduled job failed", "job", name, "elapsed", elapsed, "error", err)
		return
	}
	jobRuns.WithLabelValues(name, "ok").Inc()
	s.logger.Infow("scheduled job finished", "job", name, "elapsed", elapsed)
}

func (s *Scheduler) runRefresh(ctx context.Context) error {
	return s.estimator.RefreshAll(ctx)
}

func (s *Scheduler) runPredict(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	result, err := s.predictor.PredictDate(ctx, today)
	if err != nil {
		return err
	}
	predictionsGenerated.Add(float64(len(result.Predictions)))
	return nil
}

func (s *Scheduler) runAnalyze(ctx context.Context) error {
	result, err := s.analyzer.Run(ctx)
	if err != nil {
		return err
	}
	predictionsResolved.Add(float64(result.Resolved))
	return nil
}

func (s *Scheduler) runTrain(ctx context.Context) error {
	_, err := s.trainer.Run(ctx, trainer.Options{Tune: true})
	return err
}
