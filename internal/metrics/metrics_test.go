package metrics

import (
	"math"
	"testing"
	"time"

	"golang-quant/internal/dto"

	"github.com/stretchr/testify/assert"
)

func equityCurve(balances ...float64) []dto.EquityPoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := make([]dto.EquityPoint, len(balances))
	for i, b := range balances {
		curve[i] = dto.EquityPoint{Timestamp: base.Add(time.Duration(i) * 24 * time.Hour), Balance: b}
	}
	return curve
}

func TestCompute_NoTrades(t *testing.T) {
	bundle := Compute(equityCurve(10000, 10100), nil, 10000, 0.02, 252)
	assert.Equal(t, dto.MetricsBundle{}, bundle)
}

func TestCompute_Fixture(t *testing.T) {
	curve := equityCurve(10000, 10500, 10200, 10800)
	trades := []dto.ClosedTrade{
		{PnL: 500},
		{PnL: -300},
	}

	bundle := Compute(curve, trades, 10000, 0, 252)

	assert.Equal(t, 2, bundle.TotalTrades)
	assert.Equal(t, 1, bundle.WinningTrades)
	assert.Equal(t, 1, bundle.LosingTrades)
	assert.InDelta(t, 0.5, bundle.WinRate, 1e-9)
	assert.InDelta(t, 500, bundle.GrossProfit, 1e-9)
	assert.InDelta(t, -300, bundle.GrossLoss, 1e-9)
	assert.InDelta(t, 200, bundle.NetProfit, 1e-9)
	assert.InDelta(t, 800, bundle.TotalReturn, 1e-9)
	assert.InDelta(t, 0.08, bundle.TotalReturnPct, 1e-9)
	assert.InDelta(t, 500.0/300.0, bundle.ProfitFactor, 1e-9)
	assert.InDelta(t, 0.5*500-0.5*300, bundle.Expectancy, 1e-9)
	assert.InDelta(t, (10200.0-10500.0)/10500.0, bundle.MaxDrawdown, 1e-9)
	assert.Equal(t, 1, bundle.MaxDrawdownDuration)
	assert.InDelta(t, 0.08/(300.0/10500.0), bundle.RecoveryFactor, 1e-9)
	assert.Greater(t, bundle.SharpeRatio, 0.0)

	for _, v := range []float64{
		bundle.SharpeRatio, bundle.SortinoRatio, bundle.CalmarRatio,
		bundle.OmegaRatio, bundle.VaR95, bundle.CVaR95, bundle.TailRatio,
	} {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestReturns(t *testing.T) {
	tests := []struct {
		name   string
		curve  []dto.EquityPoint
		want   []float64
		wantNil bool
	}{
		{
			name:    "empty curve",
			curve:   nil,
			wantNil: true,
		},
		{
			name:    "single point",
			curve:   equityCurve(10000),
			wantNil: true,
		},
		{
			name:  "three points",
			curve: equityCurve(10000, 10500, 10200),
			want:  []float64{0.05, (10200.0 - 10500.0) / 10500.0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Returns(tt.curve)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, len(tt.want), len(got))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	// mean 0.02, sample std sqrt(0.0002)
	got := SharpeRatio([]float64{0.01, 0.03}, 0, 1)
	assert.InDelta(t, 0.02/math.Sqrt(0.0002), got, 1e-9)

	assert.Equal(t, 0.0, SharpeRatio(nil, 0, 252))
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.01, 0.01}, 0, 252), "zero variance yields 0")
}

func TestSortinoRatio(t *testing.T) {
	returns := []float64{0.02, -0.01, 0.03, -0.03}
	got := SortinoRatio(returns, 0, 1)
	assert.InDelta(t, 0.0025/math.Sqrt(0.0002), got, 1e-9)

	assert.Equal(t, 0.0, SortinoRatio([]float64{0.01, 0.02}, 0, 252), "no downside yields 0")
	assert.Equal(t, 0.0, SortinoRatio([]float64{0.01, -0.02}, 0, 252), "single downside sample has no spread")
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name         string
		curve        []dto.EquityPoint
		wantDD       float64
		wantDuration int
	}{
		{
			name:   "empty",
			curve:  nil,
			wantDD: 0,
		},
		{
			name:   "monotonic rise",
			curve:  equityCurve(10000, 10100, 10200),
			wantDD: 0,
		},
		{
			name:         "single dip",
			curve:        equityCurve(10000, 10500, 10200, 10800),
			wantDD:       (10200.0 - 10500.0) / 10500.0,
			wantDuration: 1,
		},
		{
			name:         "extended drawdown",
			curve:        equityCurve(10000, 9000, 9500, 9800, 10100),
			wantDD:       -0.1,
			wantDuration: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dd, duration := MaxDrawdown(tt.curve)
			assert.InDelta(t, tt.wantDD, dd, 1e-12)
			assert.Equal(t, tt.wantDuration, duration)
			assert.LessOrEqual(t, dd, 0.0)
		})
	}
}

func TestProfitFactor(t *testing.T) {
	tests := []struct {
		name   string
		wins   []float64
		losses []float64
		want   float64
	}{
		{name: "mixed", wins: []float64{500, 100}, losses: []float64{-300}, want: 2.0},
		{name: "no losers", wins: []float64{500}, losses: nil, want: 0},
		{name: "no winners", wins: nil, losses: []float64{-300}, want: 0},
		{name: "empty", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ProfitFactor(tt.wins, tt.losses), 1e-12)
		})
	}
}

func TestVaRAndCVaR(t *testing.T) {
	returns := []float64{0.05, -0.02857142857142857, 0.058823529411764705}

	v := VaR(returns, 0.95)
	// 5th percentile with linear interpolation over the sorted sample.
	assert.InDelta(t, -0.02857142857142857+0.1*(0.05-(-0.02857142857142857)), v, 1e-12)

	cv := CVaR(returns, 0.95)
	assert.InDelta(t, -0.02857142857142857, cv, 1e-12)
	assert.LessOrEqual(t, cv, v)

	assert.Equal(t, 0.0, VaR(nil, 0.95))
	assert.Equal(t, 0.0, CVaR(nil, 0.95))
}

func TestOmegaRatio(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{name: "empty", returns: nil, want: 0},
		{name: "mixed", returns: []float64{0.04, -0.02}, want: 2.0},
		{name: "all gains returns sentinel", returns: []float64{0.01, 0.02}, want: OmegaAllGains},
		{name: "all losses", returns: []float64{-0.01, -0.02}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OmegaRatio(tt.returns, 0)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.False(t, math.IsInf(got, 0))
		})
	}
}

func TestTailRatio(t *testing.T) {
	symmetric := []float64{-0.02, -0.01, 0, 0.01, 0.02}
	assert.InDelta(t, 1.0, TailRatio(symmetric), 1e-9)

	assert.Equal(t, 0.0, TailRatio(nil))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, stdDev(nil))
	assert.Equal(t, 0.0, stdDev([]float64{1.0}), "single sample has no spread")
	assert.InDelta(t, math.Sqrt(0.0002), stdDev([]float64{0.01, 0.03}), 1e-12)
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, percentile(values, 0), 1e-12)
	assert.InDelta(t, 4.0, percentile(values, 100), 1e-12)
	assert.InDelta(t, 2.5, percentile(values, 50), 1e-12)
	assert.InDelta(t, 1.15, percentile(values, 5), 1e-12)
}
