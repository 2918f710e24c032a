package model

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun is the persisted record of one backtest execution. The bulky
// result payloads (metrics, equity curve, trades, strategy parameters) are
// stored as jsonb so the schema stays stable as they evolve.
type BacktestRun struct {
	ID             uint      `gorm:"primarykey"`
	Symbol         string    `gorm:"not null;index:idx_backtest_runs_symbol_interval"`
	Interval       string    `gorm:"not null;index:idx_backtest_runs_symbol_interval"`
	StartDate      time.Time `gorm:"not null"`
	EndDate        time.Time `gorm:"not null"`
	InitialCapital float64   `gorm:"not null"`
	Success        bool      `gorm:"not null"`
	Error          string
	Strategy       datatypes.JSON `gorm:"type:jsonb"`
	Metrics        datatypes.JSON `gorm:"type:jsonb"`
	EquityCurve    datatypes.JSON `gorm:"type:jsonb"`
	Trades         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

type ListBacktestRunParam struct {
	Symbol   *string
	Interval *string
	Limit    int
}
