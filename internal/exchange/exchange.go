// Package exchange defines the connector abstraction the trading service
// talks to, plus the concrete connectors and the registry that hands them
// out. Connectors have an explicit lifecycle: Open before use, Close when
// done.
package exchange

import (
	"context"
	"errors"

	"golang-quant/internal/dto"
)

var (
	// ErrUnsupportedExchange is returned by the registry for a name no
	// connector was registered under.
	ErrUnsupportedExchange = errors.New("unsupported exchange")

	// ErrNotConnected is returned by connectors used before Open or after
	// Close.
	ErrNotConnected = errors.New("exchange not connected")
)

type Exchange interface {
	// Name is the registry key, e.g. "paper".
	Name() string

	Open(ctx context.Context) error
	Close(ctx context.Context) error

	GetBalance(ctx context.Context) (dto.AccountBalance, error)
	GetOpenPositions(ctx context.Context) ([]dto.ExchangePosition, error)
	PlaceOrder(ctx context.Context, req dto.OrderRequest) (*dto.Order, error)
}
