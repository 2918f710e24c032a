package repository

import (
	"golang-quant/config"
	"golang-quant/pkg/cache"
	"golang-quant/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	BinanceRepo     BinanceRepository
	CandleRepo      CandleRepository
	BacktestRunRepo BacktestRunRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, c cache.Cache, log *logger.Logger) *Repository {
	binanceRepo := NewBinanceRepository(cfg, log)

	return &Repository{
		BinanceRepo:     binanceRepo,
		CandleRepo:      NewCandleRepository(cfg, binanceRepo, c, log),
		BacktestRunRepo: NewBacktestRunRepository(db),
	}
}
