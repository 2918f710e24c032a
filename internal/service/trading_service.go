package service

import (
	"context"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/internal/exchange"
	"golang-quant/internal/risk"
	"golang-quant/pkg/logger"
)

// TradingService risk-checks trades against a live account snapshot and
// places the ones that pass.
type TradingService interface {
	ExecuteTrade(ctx context.Context, req dto.TradeExecutionRequest) (*dto.TradeExecutionResult, error)
	CalculatePositionSize(ctx context.Context, req dto.PositionSizeRequest) (*dto.PositionSizeResult, error)
	AssessPortfolio(ctx context.Context, exchangeName string) (*dto.PortfolioRiskAssessment, error)
}

type tradingService struct {
	cfg         *config.Config
	log         *logger.Logger
	riskManager *risk.Manager
	exchanges   *exchange.Registry
}

func NewTradingService(
	cfg *config.Config,
	log *logger.Logger,
	riskManager *risk.Manager,
	exchanges *exchange.Registry,
) TradingService {
	return &tradingService{
		cfg:         cfg,
		log:         log,
		riskManager: riskManager,
		exchanges:   exchanges,
	}
}

// ExecuteTrade snapshots the account, runs the full risk validation and
// places a market order when the trade is approved. A risk rejection comes
// back with Approved=false, not as an error.
func (s *tradingService) ExecuteTrade(ctx context.Context, req dto.TradeExecutionRequest) (*dto.TradeExecutionResult, error) {
	ex, err := s.exchanges.Get(req.Exchange)
	if err != nil {
		return nil, err
	}

	balance, err := ex.GetBalance(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := ex.GetOpenPositions(ctx)
	if err != nil {
		return nil, err
	}

	stakes := make([]dto.OpenPositionStake, 0, len(positions))
	for _, p := range positions {
		stakes = append(stakes, dto.OpenPositionStake{
			Symbol: p.Symbol,
			Value:  p.Value,
		})
	}

	approved, reason, err := s.riskManager.ValidateTrade(dto.ValidateTradeRequest{
		EntryPrice:       req.EntryPrice,
		StopLossPrice:    req.StopLossPrice,
		TakeProfitPrice:  req.TakeProfitPrice,
		Quantity:         req.Quantity,
		PortfolioValue:   balance.Total,
		AvailableBalance: balance.Available,
		OpenPositions:    stakes,
	})
	if err != nil {
		return nil, err
	}
	if !approved {
		s.log.InfoContext(ctx, "Trade rejected by risk validation",
			logger.StringField("symbol", req.Symbol),
			logger.StringField("reason", reason))
		return &dto.TradeExecutionResult{Approved: false, Reason: reason}, nil
	}

	order, err := ex.PlaceOrder(ctx, dto.OrderRequest{
		Symbol:   req.Symbol,
		Side:     req.Side,
		Type:     dto.OrderTypeMarket,
		Quantity: req.Quantity,
		Price:    req.EntryPrice,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Trade executed",
		logger.StringField("exchange", req.Exchange),
		logger.StringField("symbol", req.Symbol),
		logger.StringField("order_id", order.ID))

	return &dto.TradeExecutionResult{Approved: true, Order: order}, nil
}

func (s *tradingService) CalculatePositionSize(ctx context.Context, req dto.PositionSizeRequest) (*dto.PositionSizeResult, error) {
	return s.riskManager.CalculatePositionSize(req)
}

// AssessPortfolio reports the current exposure of the named exchange account
// without proposing a new position.
func (s *tradingService) AssessPortfolio(ctx context.Context, exchangeName string) (*dto.PortfolioRiskAssessment, error) {
	ex, err := s.exchanges.Get(exchangeName)
	if err != nil {
		return nil, err
	}

	balance, err := ex.GetBalance(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := ex.GetOpenPositions(ctx)
	if err != nil {
		return nil, err
	}

	stakes := make([]dto.OpenPositionStake, 0, len(positions))
	for _, p := range positions {
		stakes = append(stakes, dto.OpenPositionStake{
			Symbol: p.Symbol,
			Value:  p.Value,
		})
	}

	return s.riskManager.AssessPortfolioRisk(balance.Total, balance.Available, stakes, nil)
}
