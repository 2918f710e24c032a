package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the configured recurring backtests. Each tick it
// checks every job's cron expression against the time of its last run and
// launches the due ones, bounded by the configured concurrency.
type SchedulerService interface {
	Run(ctx context.Context) error
	Execute(ctx context.Context) error
}

type schedulerService struct {
	cfg             *config.Config
	log             *logger.Logger
	backtestService BacktestService
	cronParser      cron.Parser
	semaphore       chan struct{}

	mu      sync.Mutex
	lastRun map[string]time.Time
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	backtestService BacktestService,
) SchedulerService {
	return &schedulerService{
		cfg:             cfg,
		log:             log,
		backtestService: backtestService,
		cronParser:      cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		semaphore:       make(chan struct{}, cfg.Scheduler.MaxConcurrency),
		lastRun:         make(map[string]time.Time),
	}
}

// Run ticks until the context is cancelled.
func (s *schedulerService) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "Scheduler started",
		logger.IntField("jobs", len(s.cfg.Scheduler.Jobs)),
		logger.IntField("max_concurrency", s.cfg.Scheduler.MaxConcurrency))

	ticker := time.NewTicker(s.cfg.Scheduler.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.Execute(ctx); err != nil {
				s.log.ErrorContext(ctx, "Scheduler tick failed", logger.ErrorField(err))
			}
		}
	}
}

// Execute launches every job that is due at the time of the call.
func (s *schedulerService) Execute(ctx context.Context) error {
	now := time.Now().UTC()

	for _, job := range s.cfg.Scheduler.Jobs {
		due, err := s.isDue(job, now)
		if err != nil {
			s.log.ErrorContext(ctx, "Invalid cron expression",
				logger.StringField("job", job.Name),
				logger.StringField("cron", job.Cron),
				logger.ErrorField(err))
			continue
		}
		if !due {
			continue
		}

		s.markRun(job.Name, now)
		s.launch(ctx, job, now)
	}

	return nil
}

func (s *schedulerService) launch(ctx context.Context, job config.ScheduledJob, now time.Time) {
	s.semaphore <- struct{}{}
	utils.GoSafe(func() {
		defer func() { <-s.semaphore }()

		lookback, err := time.ParseDuration(job.Lookback)
		if err != nil {
			s.log.ErrorContext(ctx, "Invalid job lookback",
				logger.StringField("job", job.Name),
				logger.StringField("lookback", job.Lookback),
				logger.ErrorField(err))
			return
		}

		s.log.InfoContext(ctx, "Running scheduled backtest",
			logger.StringField("job", job.Name),
			logger.StringField("symbol", job.Symbol),
			logger.StringField("interval", job.Interval))

		result, err := s.backtestService.RunBacktest(ctx, dto.BacktestRequest{
			Symbol:    job.Symbol,
			Interval:  job.Interval,
			StartDate: now.Add(-lookback),
			EndDate:   now,
		})
		if err != nil {
			s.log.ErrorContext(ctx, "Scheduled backtest failed",
				logger.StringField("job", job.Name),
				logger.ErrorField(err))
			return
		}

		s.log.InfoContext(ctx, "Scheduled backtest completed",
			logger.StringField("job", job.Name),
			logger.IntField("total_trades", result.Metrics.TotalTrades),
			logger.Float64Field("net_profit", result.Metrics.NetProfit))
	})
}

// isDue reports whether the job's next activation after its last run is in
// the past. A job that has never run is due immediately.
func (s *schedulerService) isDue(job config.ScheduledJob, now time.Time) (bool, error) {
	schedule, err := s.cronParser.Parse(job.Cron)
	if err != nil {
		return false, fmt.Errorf("failed to parse cron %q: %w", job.Cron, err)
	}

	s.mu.Lock()
	last, ok := s.lastRun[job.Name]
	s.mu.Unlock()
	if !ok {
		return true, nil
	}

	return !schedule.Next(last).After(now), nil
}

func (s *schedulerService) markRun(name string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun[name] = at
}
