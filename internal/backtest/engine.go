// Package backtest replays a strategy over historical candles with realistic
// execution costs and produces an equity curve, a trade list and a metrics
// bundle. A run is a pure, synchronous computation over inputs passed by
// value; concurrent runs need no coordination.
package backtest

import (
	"context"
	"time"

	"golang-quant/internal/dto"
	"golang-quant/internal/indicator"
	"golang-quant/internal/metrics"
	"golang-quant/internal/strategy"
	"golang-quant/pkg/logger"
)

// Input carries everything one run needs. Candles must include enough
// lookback before StartDate to cover indicator warm-up.
type Input struct {
	Symbol          string
	Interval        string
	Candles         []dto.Candle
	Strategy        dto.StrategyParams
	StartDate       time.Time
	EndDate         time.Time
	InitialCapital  float64
	CommissionRate  float64
	SlippageRate    float64
	PositionSizePct float64
	StopLossPct     float64
	TakeProfitPct   float64
	RiskFreeRate    float64
	PeriodsPerYear  int
}

type Engine struct {
	log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

// Run executes the simulation. It never fails past its boundary: data errors
// and too-short series degrade to an explicit empty result with Success=false
// so callers can treat every backtest uniformly.
func (e *Engine) Run(ctx context.Context, in Input) *dto.BacktestResult {
	e.log.InfoContext(ctx, "Starting backtest",
		logger.StringField("symbol", in.Symbol),
		logger.StringField("interval", in.Interval),
		logger.IntField("candles", len(in.Candles)))

	if in.InitialCapital <= 0 {
		return e.emptyResult(ctx, in, "initial capital must be positive")
	}

	params := in.Strategy
	if params.SMA == nil && params.RSI == nil && params.MACD == nil {
		params = dto.DefaultStrategyParams()
	}

	frame, err := indicator.Compute(in.Candles, indicator.ForStrategy(params))
	if err != nil {
		return e.emptyResult(ctx, in, err.Error())
	}
	frame = frame.DropWarmup()

	signals, err := strategy.GenerateSignals(frame, params)
	if err != nil {
		return e.emptyResult(ctx, in, err.Error())
	}

	// Trim to the requested range only after signal generation, so crossover
	// detection on the first in-range row still sees its previous row.
	from, to := rangeBounds(frame.Candles, in.StartDate, in.EndDate)
	if to-from < 2 {
		return e.emptyResult(ctx, in, "insufficient usable candles after indicator warm-up")
	}
	frame = frame.Slice(from, to)
	signals = signals[from:to]

	result := e.simulate(ctx, in, frame.Candles, signals)

	e.log.InfoContext(ctx, "Backtest complete",
		logger.StringField("symbol", in.Symbol),
		logger.IntField("total_trades", result.Metrics.TotalTrades),
		logger.Float64Field("net_profit", result.Metrics.NetProfit))

	return result
}

func rangeBounds(candles []dto.Candle, start, end time.Time) (int, int) {
	from := len(candles)
	for i, c := range candles {
		if !c.Timestamp.Before(start) {
			from = i
			break
		}
	}
	to := from
	for i := from; i < len(candles); i++ {
		if candles[i].Timestamp.After(end) {
			break
		}
		to = i + 1
	}
	return from, to
}

// simulate walks the candle series maintaining the flat/long state machine:
// at most one open position, exits checked in stop, target, signal order with
// only the first match firing per candle.
func (e *Engine) simulate(ctx context.Context, in Input, candles []dto.Candle, signals []dto.Signal) *dto.BacktestResult {
	cash := in.InitialCapital
	state := dto.PositionFlat
	var position dto.OpenPosition

	equityCurve := make([]dto.EquityPoint, 0, len(candles))
	trades := make([]dto.ClosedTrade, 0)

	closePosition := func(timestamp time.Time, exitPrice float64, reason dto.ExitReason) {
		fillPrice := exitPrice * (1 - in.SlippageRate)
		exitNotional := position.Quantity * fillPrice
		exitCommission := exitNotional * in.CommissionRate
		cash += exitNotional - exitCommission

		entryNotional := position.Quantity * position.EntryPrice
		pnl := (exitNotional - exitCommission) - (entryNotional + position.EntryCommission)
		pnlPct := 0.0
		if entryNotional > 0 {
			pnlPct = pnl / entryNotional
		}

		trades = append(trades, dto.ClosedTrade{
			EntryTimestamp:  position.EntryTimestamp,
			ExitTimestamp:   timestamp,
			EntryPrice:      position.EntryPrice,
			ExitPrice:       fillPrice,
			Quantity:        position.Quantity,
			Side:            "long",
			PnL:             pnl,
			PnLPct:          pnlPct,
			DurationSeconds: int64(timestamp.Sub(position.EntryTimestamp).Seconds()),
			ExitReason:      reason,
			EntryCommission: position.EntryCommission,
			ExitCommission:  exitCommission,
		})

		e.log.DebugContext(ctx, "Closed position",
			logger.StringField("exit_reason", string(reason)),
			logger.Float64Field("pnl", pnl))

		state = dto.PositionFlat
		position = dto.OpenPosition{}
	}

	for i, candle := range candles {
		if state == dto.PositionLong {
			switch {
			case candle.Low <= position.StopLossPrice:
				closePosition(candle.Timestamp, position.StopLossPrice, dto.ExitStopLoss)
			case candle.High >= position.TakeProfitPrice:
				closePosition(candle.Timestamp, position.TakeProfitPrice, dto.ExitTakeProfit)
			case signals[i] == dto.SignalExitLong:
				closePosition(candle.Timestamp, candle.Close, dto.ExitSignal)
			}
		} else if signals[i] == dto.SignalEnterLong {
			notional := cash * in.PositionSizePct
			fillPrice := candle.Close * (1 + in.SlippageRate)
			quantity := notional / fillPrice
			commission := notional * in.CommissionRate

			position = dto.OpenPosition{
				EntryTimestamp:  candle.Timestamp,
				EntryPrice:      fillPrice,
				Quantity:        quantity,
				EntryCommission: commission,
				StopLossPrice:   fillPrice * (1 - in.StopLossPct),
				TakeProfitPrice: fillPrice * (1 + in.TakeProfitPct),
			}
			cash -= notional + commission
			state = dto.PositionLong

			e.log.DebugContext(ctx, "Opened long position",
				logger.Float64Field("entry_price", fillPrice),
				logger.Float64Field("quantity", quantity))
		}

		equity := cash
		if state == dto.PositionLong {
			equity += position.Quantity * candle.Close
		}
		equityCurve = append(equityCurve, dto.EquityPoint{Timestamp: candle.Timestamp, Balance: equity})
	}

	if state == dto.PositionLong {
		last := candles[len(candles)-1]
		closePosition(last.Timestamp, last.Close, dto.ExitBacktestEnd)
		equityCurve[len(equityCurve)-1].Balance = cash
	}

	return &dto.BacktestResult{
		Symbol:      in.Symbol,
		Interval:    in.Interval,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Success:     true,
		Metrics:     metrics.Compute(equityCurve, trades, in.InitialCapital, in.RiskFreeRate, in.PeriodsPerYear),
		EquityCurve: equityCurve,
		Trades:      trades,
	}
}

func (e *Engine) emptyResult(ctx context.Context, in Input, reason string) *dto.BacktestResult {
	e.log.WarnContext(ctx, "Backtest degraded to empty result",
		logger.StringField("symbol", in.Symbol),
		logger.StringField("interval", in.Interval),
		logger.StringField("start", in.StartDate.Format(time.RFC3339)),
		logger.StringField("end", in.EndDate.Format(time.RFC3339)),
		logger.StringField("reason", reason))

	return &dto.BacktestResult{
		Symbol:      in.Symbol,
		Interval:    in.Interval,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Success:     false,
		Error:       reason,
		Metrics:     dto.MetricsBundle{},
		EquityCurve: []dto.EquityPoint{},
		Trades:      []dto.ClosedTrade{},
	}
}
