package service

import (
	"context"
	"testing"

	"golang-quant/internal/dto"
	"golang-quant/internal/exchange"
	"golang-quant/internal/risk"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTradingService(t *testing.T, capital float64, limits risk.Limits) TradingService {
	t.Helper()
	log := logger.NewNop()

	paper := exchange.NewPaperExchange(log, capital)
	require.NoError(t, paper.Open(context.Background()))

	return NewTradingService(
		testConfig(),
		log,
		risk.NewManager(limits, log),
		exchange.NewRegistry(log, paper),
	)
}

func TestExecuteTrade_Approved(t *testing.T) {
	limits := risk.DefaultLimits()
	limits.MaxPositionSizePct = 1.0
	svc := newTestTradingService(t, 10000, limits)

	result, err := svc.ExecuteTrade(context.Background(), dto.TradeExecutionRequest{
		Exchange:        exchange.PaperExchangeName,
		Symbol:          "BTCUSDT",
		Side:            dto.SideBuy,
		EntryPrice:      100,
		Quantity:        5,
		StopLossPrice:   utils.ToPointer(98.0),
		TakeProfitPrice: utils.ToPointer(106.0),
	})
	require.NoError(t, err)

	assert.True(t, result.Approved)
	require.NotNil(t, result.Order)
	assert.Equal(t, dto.OrderStatusFilled, result.Order.Status)
	assert.InDelta(t, 5, result.Order.Quantity, 1e-9)
}

func TestExecuteTrade_RejectedByRisk(t *testing.T) {
	svc := newTestTradingService(t, 10000, risk.DefaultLimits())

	// 96% projected exposure against a 95% limit.
	result, err := svc.ExecuteTrade(context.Background(), dto.TradeExecutionRequest{
		Exchange:   exchange.PaperExchangeName,
		Symbol:     "BTCUSDT",
		Side:       dto.SideBuy,
		EntryPrice: 100,
		Quantity:   96,
	})
	require.NoError(t, err)

	assert.False(t, result.Approved)
	assert.Contains(t, result.Reason, "exposure limit exceeded")
	assert.Nil(t, result.Order)
}

func TestExecuteTrade_UnsupportedExchange(t *testing.T) {
	svc := newTestTradingService(t, 10000, risk.DefaultLimits())

	_, err := svc.ExecuteTrade(context.Background(), dto.TradeExecutionRequest{
		Exchange:   "kraken",
		Symbol:     "BTCUSDT",
		Side:       dto.SideBuy,
		EntryPrice: 100,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, exchange.ErrUnsupportedExchange)
}

func TestAssessPortfolio(t *testing.T) {
	svc := newTestTradingService(t, 10000, risk.DefaultLimits())

	assessment, err := svc.AssessPortfolio(context.Background(), exchange.PaperExchangeName)
	require.NoError(t, err)

	assert.True(t, assessment.CanOpenPosition)
	assert.InDelta(t, 10000, assessment.TotalValue, 1e-9)
	assert.Zero(t, assessment.OpenPositions)
}
