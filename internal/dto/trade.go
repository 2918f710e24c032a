package dto

import "time"

type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

type OrderStatus string

const (
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusRejected OrderStatus = "rejected"
)

// OrderRequest is an instruction to an exchange connector. Price is the
// reference fill price; paper connectors fill market orders at it directly.
type OrderRequest struct {
	Symbol   string    `json:"symbol" validate:"required"`
	Side     Side      `json:"side" validate:"required,oneof=buy sell"`
	Type     OrderType `json:"type" validate:"required,oneof=market limit"`
	Quantity float64   `json:"quantity" validate:"gt=0"`
	Price    float64   `json:"price" validate:"gt=0"`
}

type Order struct {
	ID        string      `json:"id"`
	Symbol    string      `json:"symbol"`
	Side      Side        `json:"side"`
	Type      OrderType   `json:"type"`
	Quantity  float64     `json:"quantity"`
	Price     float64     `json:"price"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// AccountBalance is a snapshot of an exchange account in quote currency.
type AccountBalance struct {
	Total     float64 `json:"total"`
	Available float64 `json:"available"`
}

// TradeExecutionRequest asks the trading service to risk-check a trade and,
// if it passes, place it on the named exchange.
type TradeExecutionRequest struct {
	Exchange        string   `json:"exchange" validate:"required"`
	Symbol          string   `json:"symbol" validate:"required"`
	Side            Side     `json:"side" validate:"required,oneof=buy sell"`
	EntryPrice      float64  `json:"entry_price" validate:"required,gt=0"`
	Quantity        float64  `json:"quantity" validate:"required,gt=0"`
	StopLossPrice   *float64 `json:"stop_loss_price,omitempty"`
	TakeProfitPrice *float64 `json:"take_profit_price,omitempty"`
}

// TradeExecutionResult reports the risk decision and, when approved, the
// fill. A rejected trade is a normal outcome, not an error.
type TradeExecutionResult struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
	Order    *Order `json:"order,omitempty"`
}

// ExchangePosition is one holding reported by an exchange connector.
type ExchangePosition struct {
	Symbol     string  `json:"symbol"`
	Quantity   float64 `json:"quantity"`
	EntryPrice float64 `json:"entry_price"`
	MarkPrice  float64 `json:"mark_price"`
	Value      float64 `json:"value"`
}
