package dto

// Signal is the per-row directional decision produced by strategy rule
// evaluation. Short selling is out of scope, so the only directions are
// entering and exiting a long position.
type Signal int

const (
	SignalNone Signal = iota
	SignalEnterLong
	SignalExitLong
)

func (s Signal) String() string {
	switch s {
	case SignalEnterLong:
		return "enter_long"
	case SignalExitLong:
		return "exit_long"
	}
	return "none"
}

// SMACrossParams configures the moving-average crossover rule family.
type SMACrossParams struct {
	FastPeriod int `json:"fast_period" validate:"gt=0"`
	SlowPeriod int `json:"slow_period" validate:"gt=0"`
}

// RSIBandParams configures the RSI band-cross rule family.
type RSIBandParams struct {
	Period     int     `json:"period" validate:"gt=0"`
	Oversold   float64 `json:"oversold" validate:"gte=0,lte=100"`
	Overbought float64 `json:"overbought" validate:"gte=0,lte=100"`
}

// MACDCrossParams configures the MACD signal-line crossover rule family.
type MACDCrossParams struct {
	FastPeriod   int `json:"fast_period" validate:"gt=0"`
	SlowPeriod   int `json:"slow_period" validate:"gt=0"`
	SignalPeriod int `json:"signal_period" validate:"gt=0"`
}

// StrategyParams bundles the rule families a run evaluates. Only configured
// families contribute signals; overlays apply in the fixed order SMA, RSI,
// MACD, with later overlays overwriting earlier ones on the same row.
type StrategyParams struct {
	SMA  *SMACrossParams  `json:"sma,omitempty"`
	RSI  *RSIBandParams   `json:"rsi,omitempty"`
	MACD *MACDCrossParams `json:"macd,omitempty"`
}

// DefaultStrategyParams returns the SMA 50/200 crossover configuration used
// when a request carries no explicit rules.
func DefaultStrategyParams() StrategyParams {
	return StrategyParams{
		SMA: &SMACrossParams{FastPeriod: 50, SlowPeriod: 200},
	}
}
