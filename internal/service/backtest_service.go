package service

import (
	"context"
	"time"

	"golang-quant/config"
	"golang-quant/internal/backtest"
	"golang-quant/internal/dto"
	"golang-quant/internal/indicator"
	"golang-quant/internal/model"
	"golang-quant/internal/repository"
	"golang-quant/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
	RunMany(ctx context.Context, reqs []dto.BacktestRequest) ([]*dto.BacktestResult, error)
	GetRun(ctx context.Context, id uint) (*model.BacktestRun, error)
	ListRuns(ctx context.Context, param model.ListBacktestRunParam) ([]model.BacktestRun, error)
}

type backtestService struct {
	cfg             *config.Config
	log             *logger.Logger
	engine          *backtest.Engine
	candleRepo      repository.CandleRepository
	backtestRunRepo repository.BacktestRunRepository
}

func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	engine *backtest.Engine,
	candleRepo repository.CandleRepository,
	backtestRunRepo repository.BacktestRunRepository,
) BacktestService {
	return &backtestService{
		cfg:             cfg,
		log:             log,
		engine:          engine,
		candleRepo:      candleRepo,
		backtestRunRepo: backtestRunRepo,
	}
}

// RunBacktest fetches candles with enough lookback for indicator warm-up,
// runs the simulation and persists the outcome. Persistence failures are
// logged but never discard a computed result.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	req = s.applyDefaults(req)

	params := req.Strategy
	if params.SMA == nil && params.RSI == nil && params.MACD == nil {
		params = dto.DefaultStrategyParams()
		req.Strategy = params
	}

	barDuration, err := dto.IntervalDuration(req.Interval)
	if err != nil {
		return nil, err
	}

	// Extra bars beyond the warm-up requirement absorb exchange data gaps.
	warmupBars := indicator.ForStrategy(params).WarmupBars() + 5
	fetchStart := req.StartDate.Add(-time.Duration(warmupBars) * barDuration)

	// A configured periods_per_year overrides the interval-derived bar count,
	// e.g. to annualize daily crypto bars on a 252-day calendar.
	periodsPerYear := s.cfg.Backtest.PeriodsPerYear
	if periodsPerYear <= 0 {
		periodsPerYear = dto.PeriodsPerYear(req.Interval)
	}

	candles, err := s.candleRepo.GetCandles(ctx, req.Symbol, req.Interval, fetchStart, req.EndDate)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch candles for backtest",
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err))
		return nil, err
	}

	result := s.engine.Run(ctx, backtest.Input{
		Symbol:          req.Symbol,
		Interval:        req.Interval,
		Candles:         candles,
		Strategy:        params,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		InitialCapital:  req.InitialCapital,
		CommissionRate:  req.CommissionRate,
		SlippageRate:    req.SlippageRate,
		PositionSizePct: req.PositionSizePct,
		StopLossPct:     req.StopLossPct,
		TakeProfitPct:   req.TakeProfitPct,
		RiskFreeRate:    s.cfg.Backtest.RiskFreeRate,
		PeriodsPerYear:  periodsPerYear,
	})

	if _, err := s.backtestRunRepo.Save(ctx, req, result); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist backtest run",
			logger.StringField("symbol", req.Symbol),
			logger.ErrorField(err))
	}

	return result, nil
}

// RunMany executes a batch of backtests with bounded concurrency. One failed
// fetch aborts the batch; degraded runs (Success=false) do not.
func (s *backtestService) RunMany(ctx context.Context, reqs []dto.BacktestRequest) ([]*dto.BacktestResult, error) {
	results := make([]*dto.BacktestResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Scheduler.MaxConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			result, err := s.RunBacktest(gctx, req)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *backtestService) GetRun(ctx context.Context, id uint) (*model.BacktestRun, error) {
	return s.backtestRunRepo.GetByID(ctx, id)
}

func (s *backtestService) ListRuns(ctx context.Context, param model.ListBacktestRunParam) ([]model.BacktestRun, error) {
	return s.backtestRunRepo.List(ctx, param)
}

func (s *backtestService) applyDefaults(req dto.BacktestRequest) dto.BacktestRequest {
	defaults := s.cfg.Backtest
	if req.InitialCapital == 0 {
		req.InitialCapital = defaults.InitialCapital
	}
	if req.CommissionRate == 0 {
		req.CommissionRate = defaults.CommissionRate
	}
	if req.SlippageRate == 0 {
		req.SlippageRate = defaults.SlippageRate
	}
	if req.PositionSizePct == 0 {
		req.PositionSizePct = defaults.PositionSizePct
	}
	if req.StopLossPct == 0 {
		req.StopLossPct = defaults.StopLossPct
	}
	if req.TakeProfitPct == 0 {
		req.TakeProfitPct = defaults.TakeProfitPct
	}
	return req
}
