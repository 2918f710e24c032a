package dto

// MetricsBundle is the fixed-shape record of performance statistics computed
// from an equity curve and its closed trades. Every field is always present
// and zero-filled when the input sample is empty, so downstream consumers
// never branch on missing keys.
type MetricsBundle struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`

	GrossProfit    float64 `json:"gross_profit"`
	GrossLoss      float64 `json:"gross_loss"`
	NetProfit      float64 `json:"net_profit"`
	TotalReturn    float64 `json:"total_return"`
	TotalReturnPct float64 `json:"total_return_pct"`

	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	CalmarRatio  float64 `json:"calmar_ratio"`
	OmegaRatio   float64 `json:"omega_ratio"`

	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDrawdownDuration int     `json:"max_drawdown_duration"`
	RecoveryFactor      float64 `json:"recovery_factor"`

	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	LargestWin   float64 `json:"largest_win"`
	LargestLoss  float64 `json:"largest_loss"`

	VaR95     float64 `json:"var_95"`
	CVaR95    float64 `json:"cvar_95"`
	TailRatio float64 `json:"tail_ratio"`
}
