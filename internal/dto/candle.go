package dto

import (
	"fmt"
	"math"
	"time"
)

// Candle is a single OHLCV bar.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate checks the OHLCV invariants: positive finite prices, non-negative
// volume, high at least max(open, close, low) and low at most min(open, close, high).
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("candle at %s has non-positive or non-finite price", c.Timestamp.Format(time.RFC3339))
		}
	}
	if math.IsNaN(c.Volume) || c.Volume < 0 {
		return fmt.Errorf("candle at %s has negative volume", c.Timestamp.Format(time.RFC3339))
	}
	if c.High < math.Max(c.Open, math.Max(c.Close, c.Low)) {
		return fmt.Errorf("candle at %s violates high >= max(open, close, low)", c.Timestamp.Format(time.RFC3339))
	}
	if c.Low > math.Min(c.Open, math.Min(c.Close, c.High)) {
		return fmt.Errorf("candle at %s violates low <= min(open, close, high)", c.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// IntervalDuration maps a Binance-style interval string to its bar duration.
func IntervalDuration(interval string) (time.Duration, error) {
	switch interval {
	case "1m":
		return time.Minute, nil
	case "5m":
		return 5 * time.Minute, nil
	case "15m":
		return 15 * time.Minute, nil
	case "30m":
		return 30 * time.Minute, nil
	case "1h":
		return time.Hour, nil
	case "4h":
		return 4 * time.Hour, nil
	case "1d":
		return 24 * time.Hour, nil
	case "1w":
		return 7 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unsupported interval: %s", interval)
}

// PeriodsPerYear returns the number of bars of the given interval in a
// trading year, used for metric annualization.
func PeriodsPerYear(interval string) int {
	d, err := IntervalDuration(interval)
	if err != nil {
		return 252
	}
	return int((365 * 24 * time.Hour) / d)
}
