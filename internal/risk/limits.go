package risk

import "golang-quant/config"

// Limits is the portfolio-level risk configuration. A Manager treats its
// Limits as immutable; only UpdateLimits replaces fields, by name.
type Limits struct {
	MaxPositionSizePct   float64 `json:"max_position_size_pct"`
	MaxTradeRiskPct      float64 `json:"max_trade_risk_pct"`
	MaxTotalExposurePct  float64 `json:"max_total_exposure_pct"`
	MaxOpenPositions     int     `json:"max_open_positions"`
	MaxDrawdownPct       float64 `json:"max_drawdown_pct"`
	MinRiskRewardRatio   float64 `json:"min_risk_reward_ratio"`
	DefaultStopLossPct   float64 `json:"default_stop_loss_pct"`
	DefaultTakeProfitPct float64 `json:"default_take_profit_pct"`
}

// DefaultLimits returns the stock limit set: 10% of the portfolio per
// position, 2% risk per trade, 95% total exposure, ten concurrent positions,
// 1.5 minimum risk/reward, 2% stop and 4% target.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSizePct:   0.10,
		MaxTradeRiskPct:      0.02,
		MaxTotalExposurePct:  0.95,
		MaxOpenPositions:     10,
		MaxDrawdownPct:       0.20,
		MinRiskRewardRatio:   1.5,
		DefaultStopLossPct:   0.02,
		DefaultTakeProfitPct: 0.04,
	}
}

// LimitsFromConfig builds Limits from the application config, falling back to
// the defaults for unset fields.
func LimitsFromConfig(cfg config.Risk) Limits {
	limits := DefaultLimits()
	if cfg.MaxPositionSizePct > 0 {
		limits.MaxPositionSizePct = cfg.MaxPositionSizePct
	}
	if cfg.MaxTradeRiskPct > 0 {
		limits.MaxTradeRiskPct = cfg.MaxTradeRiskPct
	}
	if cfg.MaxTotalExposurePct > 0 {
		limits.MaxTotalExposurePct = cfg.MaxTotalExposurePct
	}
	if cfg.MaxOpenPositions > 0 {
		limits.MaxOpenPositions = cfg.MaxOpenPositions
	}
	if cfg.MaxDrawdownPct > 0 {
		limits.MaxDrawdownPct = cfg.MaxDrawdownPct
	}
	if cfg.MinRiskRewardRatio > 0 {
		limits.MinRiskRewardRatio = cfg.MinRiskRewardRatio
	}
	if cfg.DefaultStopLossPct > 0 {
		limits.DefaultStopLossPct = cfg.DefaultStopLossPct
	}
	if cfg.DefaultTakeProfit > 0 {
		limits.DefaultTakeProfitPct = cfg.DefaultTakeProfit
	}
	return limits
}
