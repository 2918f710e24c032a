package exchange

import (
	"context"
	"fmt"
	"sync"

	"golang-quant/pkg/logger"
)

// Registry owns the set of available connectors. Callers construct it with
// the connectors they want rather than relying on package-level state, so
// tests can inject fakes.
type Registry struct {
	mu        sync.RWMutex
	log       *logger.Logger
	exchanges map[string]Exchange
}

func NewRegistry(log *logger.Logger, exchanges ...Exchange) *Registry {
	r := &Registry{
		log:       log,
		exchanges: make(map[string]Exchange, len(exchanges)),
	}
	for _, ex := range exchanges {
		r.exchanges[ex.Name()] = ex
	}
	return r
}

func (r *Registry) Register(ex Exchange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges[ex.Name()] = ex
}

// Get returns the connector registered under name, or
// ErrUnsupportedExchange wrapped with the offending name.
func (r *Registry) Get(name string) (Exchange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.exchanges[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExchange, name)
	}
	return ex, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.exchanges))
	for name := range r.exchanges {
		names = append(names, name)
	}
	return names
}

// CloseAll closes every registered connector, logging failures but always
// visiting all of them.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, ex := range r.exchanges {
		if err := ex.Close(ctx); err != nil {
			r.log.ErrorContext(ctx, "Failed to close exchange",
				logger.StringField("exchange", name),
				logger.ErrorField(err))
		}
	}
}
