package service

import (
	"golang-quant/config"
	"golang-quant/internal/backtest"
	"golang-quant/internal/exchange"
	"golang-quant/internal/repository"
	"golang-quant/internal/risk"
	"golang-quant/pkg/logger"
)

type Service struct {
	BacktestService  BacktestService
	TradingService   TradingService
	SchedulerService SchedulerService
	RiskManager      *risk.Manager
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	exchanges *exchange.Registry,
) *Service {
	riskManager := risk.NewManager(risk.LimitsFromConfig(cfg.Risk), log)
	engine := backtest.NewEngine(log)

	backtestService := NewBacktestService(cfg, log, engine, repo.CandleRepo, repo.BacktestRunRepo)
	tradingService := NewTradingService(cfg, log, riskManager, exchanges)
	schedulerService := NewSchedulerService(cfg, log, backtestService)

	return &Service{
		BacktestService:  backtestService,
		TradingService:   tradingService,
		SchedulerService: schedulerService,
		RiskManager:      riskManager,
	}
}
