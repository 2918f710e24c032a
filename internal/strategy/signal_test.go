package strategy

import (
	"testing"
	"time"

	"golang-quant/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameWithColumns(rows int, columns map[string][]float64) *dto.IndicatorFrame {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]dto.Candle, rows)
	for i := range candles {
		candles[i] = dto.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100,
			Volume: 100,
		}
	}
	return &dto.IndicatorFrame{Candles: candles, Columns: columns}
}

func TestGenerateSignals_SMACross(t *testing.T) {
	frame := frameWithColumns(5, map[string][]float64{
		"sma_2": {95, 95, 101, 101, 95},
		"sma_3": {100, 100, 100, 100, 100},
	})

	signals, err := GenerateSignals(frame, dto.StrategyParams{
		SMA: &dto.SMACrossParams{FastPeriod: 2, SlowPeriod: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, []dto.Signal{
		dto.SignalNone,
		dto.SignalNone,
		dto.SignalEnterLong,
		dto.SignalNone,
		dto.SignalExitLong,
	}, signals)
}

func TestGenerateSignals_SMATouchDoesNotCross(t *testing.T) {
	// The fast average approaches the slow one and retreats without crossing.
	frame := frameWithColumns(4, map[string][]float64{
		"sma_2": {95, 99, 95, 95},
		"sma_3": {100, 100, 100, 100},
	})

	signals, err := GenerateSignals(frame, dto.StrategyParams{
		SMA: &dto.SMACrossParams{FastPeriod: 2, SlowPeriod: 3},
	})
	require.NoError(t, err)

	for _, s := range signals {
		assert.Equal(t, dto.SignalNone, s)
	}
}

func TestGenerateSignals_RSIBand(t *testing.T) {
	frame := frameWithColumns(6, map[string][]float64{
		"rsi": {50, 28, 35, 50, 75, 60},
	})

	signals, err := GenerateSignals(frame, dto.StrategyParams{
		RSI: &dto.RSIBandParams{Period: 14, Oversold: 30, Overbought: 70},
	})
	require.NoError(t, err)

	assert.Equal(t, []dto.Signal{
		dto.SignalNone,
		dto.SignalEnterLong,
		dto.SignalNone,
		dto.SignalNone,
		dto.SignalExitLong,
		dto.SignalNone,
	}, signals)
}

func TestGenerateSignals_MACDCross(t *testing.T) {
	frame := frameWithColumns(4, map[string][]float64{
		"macd":        {-1, 1, 1, -1},
		"macd_signal": {0, 0, 0, 0},
	})

	signals, err := GenerateSignals(frame, dto.StrategyParams{
		MACD: &dto.MACDCrossParams{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9},
	})
	require.NoError(t, err)

	assert.Equal(t, []dto.Signal{
		dto.SignalNone,
		dto.SignalEnterLong,
		dto.SignalNone,
		dto.SignalExitLong,
	}, signals)
}

func TestGenerateSignals_LaterOverlayWins(t *testing.T) {
	// SMA says exit on row 1, RSI overwrites it with an entry.
	frame := frameWithColumns(2, map[string][]float64{
		"sma_2": {101, 95},
		"sma_3": {100, 100},
		"rsi":   {50, 25},
	})

	signals, err := GenerateSignals(frame, dto.StrategyParams{
		SMA: &dto.SMACrossParams{FastPeriod: 2, SlowPeriod: 3},
		RSI: &dto.RSIBandParams{Period: 14, Oversold: 30, Overbought: 70},
	})
	require.NoError(t, err)

	assert.Equal(t, dto.SignalEnterLong, signals[1])
}

func TestGenerateSignals_MissingColumn(t *testing.T) {
	frame := frameWithColumns(3, map[string][]float64{
		"sma_2": {95, 95, 101},
	})

	_, err := GenerateSignals(frame, dto.StrategyParams{
		SMA: &dto.SMACrossParams{FastPeriod: 2, SlowPeriod: 3},
	})
	assert.Error(t, err)
}

func TestGenerateSignals_NoFamilies(t *testing.T) {
	frame := frameWithColumns(3, nil)

	signals, err := GenerateSignals(frame, dto.StrategyParams{})
	require.NoError(t, err)

	for _, s := range signals {
		assert.Equal(t, dto.SignalNone, s)
	}
}
