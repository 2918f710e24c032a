package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-quant/internal/dto"
	"golang-quant/pkg/logger"
)

const PaperExchangeName = "paper"

// PaperExchange simulates an exchange account in memory. Market orders fill
// immediately at the request's reference price; limit orders are not
// supported. It is safe for concurrent use.
type PaperExchange struct {
	mu        sync.Mutex
	log       *logger.Logger
	connected bool
	cash      float64
	positions map[string]*dto.ExchangePosition
	orderSeq  int64
}

func NewPaperExchange(log *logger.Logger, initialCapital float64) *PaperExchange {
	return &PaperExchange{
		log:       log,
		cash:      initialCapital,
		positions: make(map[string]*dto.ExchangePosition),
	}
}

func (p *PaperExchange) Name() string { return PaperExchangeName }

func (p *PaperExchange) Open(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = true
	p.log.InfoContext(ctx, "Paper exchange connected",
		logger.Float64Field("cash", p.cash))
	return nil
}

func (p *PaperExchange) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
	return nil
}

func (p *PaperExchange) GetBalance(ctx context.Context) (dto.AccountBalance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return dto.AccountBalance{}, ErrNotConnected
	}
	total := p.cash
	for _, pos := range p.positions {
		total += pos.Value
	}
	return dto.AccountBalance{Total: total, Available: p.cash}, nil
}

func (p *PaperExchange) GetOpenPositions(ctx context.Context) ([]dto.ExchangePosition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return nil, ErrNotConnected
	}
	out := make([]dto.ExchangePosition, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	return out, nil
}

func (p *PaperExchange) PlaceOrder(ctx context.Context, req dto.OrderRequest) (*dto.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return nil, ErrNotConnected
	}
	if req.Type != dto.OrderTypeMarket {
		return nil, fmt.Errorf("paper exchange supports market orders only, got %q", req.Type)
	}

	notional := req.Quantity * req.Price
	switch req.Side {
	case dto.SideBuy:
		if notional > p.cash {
			return nil, fmt.Errorf("insufficient paper balance: need %.2f, have %.2f", notional, p.cash)
		}
		p.cash -= notional
		if pos, ok := p.positions[req.Symbol]; ok {
			totalQty := pos.Quantity + req.Quantity
			pos.EntryPrice = (pos.EntryPrice*pos.Quantity + req.Price*req.Quantity) / totalQty
			pos.Quantity = totalQty
			pos.MarkPrice = req.Price
			pos.Value = totalQty * req.Price
		} else {
			p.positions[req.Symbol] = &dto.ExchangePosition{
				Symbol:     req.Symbol,
				Quantity:   req.Quantity,
				EntryPrice: req.Price,
				MarkPrice:  req.Price,
				Value:      notional,
			}
		}
	case dto.SideSell:
		pos, ok := p.positions[req.Symbol]
		if !ok || pos.Quantity < req.Quantity {
			return nil, fmt.Errorf("insufficient paper position in %s", req.Symbol)
		}
		p.cash += notional
		pos.Quantity -= req.Quantity
		pos.MarkPrice = req.Price
		pos.Value = pos.Quantity * req.Price
		if pos.Quantity == 0 {
			delete(p.positions, req.Symbol)
		}
	default:
		return nil, fmt.Errorf("unknown order side %q", req.Side)
	}

	p.orderSeq++
	order := &dto.Order{
		ID:        fmt.Sprintf("paper-%d", p.orderSeq),
		Symbol:    req.Symbol,
		Side:      req.Side,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Status:    dto.OrderStatusFilled,
		CreatedAt: time.Now().UTC(),
	}

	p.log.InfoContext(ctx, "Paper order filled",
		logger.StringField("order_id", order.ID),
		logger.StringField("symbol", order.Symbol),
		logger.StringField("side", string(order.Side)),
		logger.Float64Field("quantity", order.Quantity),
		logger.Float64Field("price", order.Price))

	return order, nil
}
