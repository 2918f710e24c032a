package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"

	"gorm.io/gorm"
)

type BacktestRunRepository interface {
	Save(ctx context.Context, req dto.BacktestRequest, result *dto.BacktestResult) (*model.BacktestRun, error)
	GetByID(ctx context.Context, id uint) (*model.BacktestRun, error)
	List(ctx context.Context, param model.ListBacktestRunParam) ([]model.BacktestRun, error)
}

type backtestRunRepository struct {
	db *gorm.DB
}

func NewBacktestRunRepository(db *gorm.DB) BacktestRunRepository {
	return &backtestRunRepository{db: db}
}

func (r *backtestRunRepository) Save(ctx context.Context, req dto.BacktestRequest, result *dto.BacktestResult) (*model.BacktestRun, error) {
	strategy, err := json.Marshal(req.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal strategy params: %w", err)
	}
	metrics, err := json.Marshal(result.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metrics: %w", err)
	}
	equityCurve, err := json.Marshal(result.EquityCurve)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal equity curve: %w", err)
	}
	trades, err := json.Marshal(result.Trades)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trades: %w", err)
	}

	run := &model.BacktestRun{
		Symbol:         result.Symbol,
		Interval:       result.Interval,
		StartDate:      result.StartDate,
		EndDate:        result.EndDate,
		InitialCapital: req.InitialCapital,
		Success:        result.Success,
		Error:          result.Error,
		Strategy:       strategy,
		Metrics:        metrics,
		EquityCurve:    equityCurve,
		Trades:         trades,
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *backtestRunRepository) GetByID(ctx context.Context, id uint) (*model.BacktestRun, error) {
	var run model.BacktestRun
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *backtestRunRepository) List(ctx context.Context, param model.ListBacktestRunParam) ([]model.BacktestRun, error) {
	query := r.db.WithContext(ctx).Model(&model.BacktestRun{})
	if param.Symbol != nil {
		query = query.Where("symbol = ?", *param.Symbol)
	}
	if param.Interval != nil {
		// "interval" is reserved in postgres and must stay quoted.
		query = query.Where(`"interval" = ?`, *param.Interval)
	}
	limit := param.Limit
	if limit <= 0 {
		limit = 50
	}

	var runs []model.BacktestRun
	if err := query.Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
