package risk

import (
	"math"
	"testing"

	"golang-quant/internal/dto"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(limits Limits) *Manager {
	return NewManager(limits, logger.NewNop())
}

func TestCalculatePositionSize_RiskBudget(t *testing.T) {
	// Generous size cap so only the risk budget binds.
	limits := DefaultLimits()
	limits.MaxPositionSizePct = 1.0
	m := newTestManager(limits)

	result, err := m.CalculatePositionSize(dto.PositionSizeRequest{
		EntryPrice:     50000,
		StopLossPrice:  49000,
		PortfolioValue: 10000,
		RiskPct:        utils.ToPointer(0.02),
	})
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.InDelta(t, 0.2, result.Quantity, 1e-9)
	assert.InDelta(t, 200, result.RiskAmount, 1e-9)
	assert.InDelta(t, 0.02, result.RiskPct, 1e-9)
	assert.InDelta(t, 10000, result.PositionValue, 1e-9)
}

func TestCalculatePositionSize_SizeCapRescales(t *testing.T) {
	m := newTestManager(DefaultLimits())

	result, err := m.CalculatePositionSize(dto.PositionSizeRequest{
		EntryPrice:     50000,
		StopLossPrice:  49000,
		PortfolioValue: 10000,
	})
	require.NoError(t, err)

	// Risk budget alone would buy 0.2 units (10000 notional); the 10% size
	// cap shrinks it to 1000 notional and the realized risk drops with it.
	assert.True(t, result.Approved)
	assert.InDelta(t, 0.02, result.Quantity, 1e-9)
	assert.InDelta(t, 1000, result.PositionValue, 1e-9)
	assert.InDelta(t, 20, result.RiskAmount, 1e-9)
	assert.InDelta(t, 0.002, result.RiskPct, 1e-9)
}

func TestCalculatePositionSize_RiskClampedToLimit(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxPositionSizePct = 1.0
	m := newTestManager(limits)

	result, err := m.CalculatePositionSize(dto.PositionSizeRequest{
		EntryPrice:     100,
		StopLossPrice:  98,
		PortfolioValue: 10000,
		RiskPct:        utils.ToPointer(0.10),
	})
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.InDelta(t, 0.02, result.RiskPct, 1e-9)
	assert.InDelta(t, 200, result.RiskAmount, 1e-9)
}

func TestCalculatePositionSize_StopEqualsEntry(t *testing.T) {
	m := newTestManager(DefaultLimits())

	result, err := m.CalculatePositionSize(dto.PositionSizeRequest{
		EntryPrice:     100,
		StopLossPrice:  100,
		PortfolioValue: 10000,
	})
	require.NoError(t, err)

	assert.False(t, result.Approved)
	assert.Equal(t, "stop-loss price equals entry price", result.RejectionReason)
	assert.Zero(t, result.Quantity)
}

func TestCalculatePositionSize_RiskRewardRejection(t *testing.T) {
	limits := DefaultLimits()
	limits.MinRiskRewardRatio = 2.0
	m := newTestManager(limits)

	// Reward 1 per unit against risk 2 per unit: ratio 0.5, below 2.0.
	result, err := m.CalculatePositionSize(dto.PositionSizeRequest{
		EntryPrice:      100,
		StopLossPrice:   98,
		PortfolioValue:  100000,
		TakeProfitPrice: utils.ToPointer(101.0),
	})
	require.NoError(t, err)

	assert.False(t, result.Approved)
	assert.Equal(t, "risk/reward ratio 0.50 below minimum 2.00", result.RejectionReason)
	require.NotNil(t, result.RiskRewardRatio)
	assert.InDelta(t, 0.5, *result.RiskRewardRatio, 1e-9)
}

func TestCalculatePositionSize_MalformedInput(t *testing.T) {
	m := newTestManager(DefaultLimits())

	tests := []struct {
		name string
		req  dto.PositionSizeRequest
	}{
		{
			name: "NaN entry price",
			req:  dto.PositionSizeRequest{EntryPrice: math.NaN(), StopLossPrice: 98, PortfolioValue: 10000},
		},
		{
			name: "negative stop",
			req:  dto.PositionSizeRequest{EntryPrice: 100, StopLossPrice: -1, PortfolioValue: 10000},
		},
		{
			name: "zero portfolio",
			req:  dto.PositionSizeRequest{EntryPrice: 100, StopLossPrice: 98, PortfolioValue: 0},
		},
		{
			name: "infinite risk pct",
			req:  dto.PositionSizeRequest{EntryPrice: 100, StopLossPrice: 98, PortfolioValue: 10000, RiskPct: utils.ToPointer(math.Inf(1))},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := m.CalculatePositionSize(tt.req)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestCalculateStopLoss(t *testing.T) {
	m := newTestManager(DefaultLimits())

	buy, err := m.CalculateStopLoss(100, dto.SideBuy, nil)
	require.NoError(t, err)
	assert.InDelta(t, 98, buy, 1e-9)

	sell, err := m.CalculateStopLoss(100, dto.SideSell, nil)
	require.NoError(t, err)
	assert.InDelta(t, 102, sell, 1e-9)

	custom, err := m.CalculateStopLoss(100, dto.SideBuy, utils.ToPointer(0.05))
	require.NoError(t, err)
	assert.InDelta(t, 95, custom, 1e-9)

	_, err = m.CalculateStopLoss(0, dto.SideBuy, nil)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestCalculateTakeProfit(t *testing.T) {
	m := newTestManager(DefaultLimits())

	tests := []struct {
		name string
		side dto.Side
		spec TakeProfitSpec
		want float64
	}{
		{name: "default pct buy", side: dto.SideBuy, spec: TakeProfitSpec{}, want: 104},
		{name: "default pct sell", side: dto.SideSell, spec: TakeProfitSpec{}, want: 96},
		{name: "explicit pct buy", side: dto.SideBuy, spec: TakeProfitByPercentage(0.10), want: 110},
		{name: "risk reward buy", side: dto.SideBuy, spec: TakeProfitByRiskReward(2.0, 98), want: 104},
		{name: "risk reward sell", side: dto.SideSell, spec: TakeProfitByRiskReward(2.0, 102), want: 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.CalculateTakeProfit(100, tt.side, tt.spec)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := m.CalculateTakeProfit(100, dto.SideBuy, TakeProfitByPercentage(-0.1))
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = m.CalculateTakeProfit(100, dto.SideBuy, TakeProfitByRiskReward(0, 98))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestAssessPortfolioRisk(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxOpenPositions = 3
	m := newTestManager(limits)

	threePositions := []dto.OpenPositionStake{
		{Symbol: "BTCUSDT", Value: 1000, RiskAmount: 20},
		{Symbol: "ETHUSDT", Value: 1000, RiskAmount: 20},
		{Symbol: "SOLUSDT", Value: 1000, RiskAmount: 20},
	}

	t.Run("max positions reached", func(t *testing.T) {
		got, err := m.AssessPortfolioRisk(10000, 7000, threePositions, utils.ToPointer(500.0))
		require.NoError(t, err)
		assert.False(t, got.CanOpenPosition)
		assert.Equal(t, "maximum positions limit reached (3)", got.Reason)
		assert.Equal(t, 3, got.OpenPositions)
		assert.InDelta(t, 0.3, got.ExposurePct, 1e-9)
	})

	t.Run("exposure limit exceeded", func(t *testing.T) {
		positions := []dto.OpenPositionStake{{Symbol: "BTCUSDT", Value: 9000}}
		got, err := m.AssessPortfolioRisk(10000, 1000, positions, utils.ToPointer(600.0))
		require.NoError(t, err)
		assert.False(t, got.CanOpenPosition)
		assert.Equal(t, "exposure limit exceeded (96.0% > 95.0%)", got.Reason)
	})

	t.Run("projected exposure equal to limit passes", func(t *testing.T) {
		positions := []dto.OpenPositionStake{{Symbol: "BTCUSDT", Value: 9000}}
		got, err := m.AssessPortfolioRisk(10000, 1000, positions, utils.ToPointer(500.0))
		require.NoError(t, err)
		assert.True(t, got.CanOpenPosition)
		assert.Empty(t, got.Reason)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		got, err := m.AssessPortfolioRisk(10000, 100, nil, utils.ToPointer(500.0))
		require.NoError(t, err)
		assert.False(t, got.CanOpenPosition)
		assert.Equal(t, "insufficient balance (need 500.00, have 100.00)", got.Reason)
	})

	t.Run("no candidate reports exposure only", func(t *testing.T) {
		got, err := m.AssessPortfolioRisk(10000, 7000, threePositions, nil)
		require.NoError(t, err)
		assert.True(t, got.CanOpenPosition)
		assert.InDelta(t, 3000, got.TotalExposure, 1e-9)
		assert.InDelta(t, 60, got.TotalRiskAmount, 1e-9)
		assert.InDelta(t, 0.006, got.TotalRiskPct, 1e-9)
	})

	t.Run("malformed portfolio value", func(t *testing.T) {
		_, err := m.AssessPortfolioRisk(0, 100, nil, nil)
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}

func TestValidateTrade(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxPositionSizePct = 1.0
	m := newTestManager(limits)

	t.Run("approved", func(t *testing.T) {
		approved, reason, err := m.ValidateTrade(dto.ValidateTradeRequest{
			EntryPrice:       100,
			StopLossPrice:    utils.ToPointer(98.0),
			TakeProfitPrice:  utils.ToPointer(106.0),
			Quantity:         5,
			PortfolioValue:   10000,
			AvailableBalance: 5000,
		})
		require.NoError(t, err)
		assert.True(t, approved)
		assert.Empty(t, reason)
	})

	t.Run("rejected by portfolio check", func(t *testing.T) {
		approved, reason, err := m.ValidateTrade(dto.ValidateTradeRequest{
			EntryPrice:       100,
			Quantity:         90,
			PortfolioValue:   10000,
			AvailableBalance: 500,
		})
		require.NoError(t, err)
		assert.False(t, approved)
		assert.Equal(t, "insufficient balance (need 9000.00, have 500.00)", reason)
	})

	t.Run("rejected by risk reward", func(t *testing.T) {
		approved, reason, err := m.ValidateTrade(dto.ValidateTradeRequest{
			EntryPrice:       100,
			StopLossPrice:    utils.ToPointer(98.0),
			TakeProfitPrice:  utils.ToPointer(101.0),
			Quantity:         5,
			PortfolioValue:   10000,
			AvailableBalance: 5000,
		})
		require.NoError(t, err)
		assert.False(t, approved)
		assert.Contains(t, reason, "risk/reward ratio")
	})

	t.Run("malformed quantity", func(t *testing.T) {
		_, _, err := m.ValidateTrade(dto.ValidateTradeRequest{
			EntryPrice:     100,
			Quantity:       -1,
			PortfolioValue: 10000,
		})
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}

func TestUpdateLimits(t *testing.T) {
	m := newTestManager(DefaultLimits())

	m.UpdateLimits(map[string]float64{
		"max_trade_risk_pct": 0.05,
		"max_open_positions": 5,
		"unknown_parameter":  1,
	})

	limits := m.Limits()
	assert.InDelta(t, 0.05, limits.MaxTradeRiskPct, 1e-9)
	assert.Equal(t, 5, limits.MaxOpenPositions)
	assert.InDelta(t, 0.10, limits.MaxPositionSizePct, 1e-9)
}
