package cmd

import (
	"context"

	"golang-quant/config"
	"golang-quant/internal/exchange"
	"golang-quant/pkg/cache"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	exchanges *exchange.Registry
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	paper := exchange.NewPaperExchange(log, cfg.Backtest.InitialCapital)
	if err := paper.Open(ctx); err != nil {
		return nil, err
	}

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      echo.New(),
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		exchanges: exchange.NewRegistry(log, paper),
	}, nil
}

func (d *AppDependency) Close(ctx context.Context) error {
	d.log.Info("Closing app dependency")
	d.exchanges.CloseAll(ctx)
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
