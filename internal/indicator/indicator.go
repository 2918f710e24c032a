package indicator

import (
	"fmt"
	"golang-quant/internal/dto"
)

// Config names the derived columns to compute over a candle series.
type Config struct {
	SMAPeriods []int
	EMAPeriods []int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBPeriod   int
	BBStd      float64
	ATRPeriod  int
}

// DefaultConfig mirrors the indicator set the signal rules consume.
func DefaultConfig() Config {
	return Config{
		SMAPeriods: []int{50, 200},
		EMAPeriods: []int{12, 26},
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBPeriod:   20,
		BBStd:      2,
		ATRPeriod:  14,
	}
}

// ForStrategy derives the indicator config a strategy parameter bundle needs,
// so a run only computes (and warms up) the columns its rules consume.
func ForStrategy(params dto.StrategyParams) Config {
	cfg := Config{}
	if params.SMA != nil {
		cfg.SMAPeriods = []int{params.SMA.FastPeriod, params.SMA.SlowPeriod}
	}
	if params.RSI != nil {
		cfg.RSIPeriod = params.RSI.Period
	}
	if params.MACD != nil {
		cfg.MACDFast = params.MACD.FastPeriod
		cfg.MACDSlow = params.MACD.SlowPeriod
		cfg.MACDSignal = params.MACD.SignalPeriod
	}
	return cfg
}

// WarmupBars returns the number of leading candles lost to lookback, i.e. how
// many extra candles a caller should fetch before its requested range.
func (c Config) WarmupBars() int {
	warmup := 0
	for _, p := range c.SMAPeriods {
		if p > warmup {
			warmup = p
		}
	}
	if c.RSIPeriod > 0 && c.RSIPeriod+1 > warmup {
		warmup = c.RSIPeriod + 1
	}
	if c.BBPeriod > warmup {
		warmup = c.BBPeriod
	}
	if c.ATRPeriod > 0 && c.ATRPeriod+1 > warmup {
		warmup = c.ATRPeriod + 1
	}
	return warmup
}

// Compute derives the configured columns over the candle series. It is a pure
// function: candles in, frame out. Malformed candles are a caller defect and
// fail loudly.
func Compute(candles []dto.Candle, cfg Config) (*dto.IndicatorFrame, error) {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid candle at row %d: %w", i, err)
		}
		if i > 0 && !candles[i].Timestamp.After(candles[i-1].Timestamp) {
			return nil, fmt.Errorf("candle timestamps not strictly increasing at row %d", i)
		}
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	frame := &dto.IndicatorFrame{
		Candles: candles,
		Columns: make(map[string][]float64),
	}

	for _, period := range cfg.SMAPeriods {
		frame.Columns[fmt.Sprintf("sma_%d", period)] = sma(closes, period)
	}
	for _, period := range cfg.EMAPeriods {
		frame.Columns[fmt.Sprintf("ema_%d", period)] = ema(closes, period)
	}

	if cfg.RSIPeriod > 0 {
		frame.Columns["rsi"] = rsi(closes, cfg.RSIPeriod)
	}

	if cfg.MACDFast > 0 && cfg.MACDSlow > 0 {
		emaFast := ema(closes, cfg.MACDFast)
		emaSlow := ema(closes, cfg.MACDSlow)
		macd := make([]float64, len(closes))
		for i := range closes {
			macd[i] = emaFast[i] - emaSlow[i]
		}
		signal := ema(macd, cfg.MACDSignal)
		histogram := make([]float64, len(closes))
		for i := range closes {
			histogram[i] = macd[i] - signal[i]
		}
		frame.Columns["macd"] = macd
		frame.Columns["macd_signal"] = signal
		frame.Columns["macd_histogram"] = histogram
	}

	if cfg.BBPeriod > 0 {
		middle := sma(closes, cfg.BBPeriod)
		std := rollingStd(closes, cfg.BBPeriod)
		upper := make([]float64, len(closes))
		lower := make([]float64, len(closes))
		for i := range closes {
			upper[i] = middle[i] + cfg.BBStd*std[i]
			lower[i] = middle[i] - cfg.BBStd*std[i]
		}
		frame.Columns["bb_middle"] = middle
		frame.Columns["bb_upper"] = upper
		frame.Columns["bb_lower"] = lower
	}

	if cfg.ATRPeriod > 0 {
		frame.Columns["atr"] = atr(highs, lows, closes, cfg.ATRPeriod)
	}

	return frame, nil
}
