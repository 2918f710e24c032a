package dto

import "time"

// PositionState makes the single-position state machine explicit: a run is
// either flat or holding one long position, never more.
type PositionState int

const (
	PositionFlat PositionState = iota
	PositionLong
)

// ExitReason tags why a position was closed.
type ExitReason string

const (
	ExitStopLoss    ExitReason = "stop_loss"
	ExitTakeProfit  ExitReason = "take_profit"
	ExitSignal      ExitReason = "signal"
	ExitBacktestEnd ExitReason = "backtest_end"
)

// OpenPosition is the one live position a backtest run may hold.
type OpenPosition struct {
	EntryTimestamp  time.Time `json:"entry_timestamp"`
	EntryPrice      float64   `json:"entry_price"` // post-slippage
	Quantity        float64   `json:"quantity"`
	EntryCommission float64   `json:"entry_commission"`
	StopLossPrice   float64   `json:"stop_loss_price"`
	TakeProfitPrice float64   `json:"take_profit_price"`
}

// ClosedTrade is an immutable record of a completed round trip.
type ClosedTrade struct {
	EntryTimestamp  time.Time  `json:"entry_timestamp"`
	ExitTimestamp   time.Time  `json:"exit_timestamp"`
	EntryPrice      float64    `json:"entry_price"` // post-slippage
	ExitPrice       float64    `json:"exit_price"`  // post-slippage
	Quantity        float64    `json:"quantity"`
	Side            string     `json:"side"`
	PnL             float64    `json:"pnl"`
	PnLPct          float64    `json:"pnl_pct"`
	DurationSeconds int64      `json:"duration_seconds"`
	ExitReason      ExitReason `json:"exit_reason"`
	EntryCommission float64    `json:"entry_commission"`
	ExitCommission  float64    `json:"exit_commission"`
}

// EquityPoint is the mark-to-market balance after processing one candle.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
}

// BacktestRequest defines the parameters for one backtest run. Zero-valued
// cost and sizing fields fall back to the configured backtest defaults.
type BacktestRequest struct {
	Symbol          string         `json:"symbol" validate:"required"`
	Interval        string         `json:"interval" validate:"required"`
	StartDate       time.Time      `json:"start_date" validate:"required"`
	EndDate         time.Time      `json:"end_date" validate:"required,gtfield=StartDate"`
	InitialCapital  float64        `json:"initial_capital" validate:"gte=0"`
	CommissionRate  float64        `json:"commission_rate" validate:"gte=0,lt=1"`
	SlippageRate    float64        `json:"slippage_rate" validate:"gte=0,lt=1"`
	PositionSizePct float64        `json:"position_size_pct" validate:"gte=0,lte=1"`
	StopLossPct     float64        `json:"stop_loss_pct" validate:"gte=0,lt=1"`
	TakeProfitPct   float64        `json:"take_profit_pct" validate:"gte=0,lt=1"`
	Strategy        StrategyParams `json:"strategy"`
}

// BacktestResult is the full outcome of a run. Success is false when the
// usable series was too short or the data was unusable; in that case the
// metrics are zero-filled and the curve and trade list are empty.
type BacktestResult struct {
	Symbol      string        `json:"symbol"`
	Interval    string        `json:"interval"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Metrics     MetricsBundle `json:"metrics"`
	EquityCurve []EquityPoint `json:"equity_curve"`
	Trades      []ClosedTrade `json:"trades"`
}
