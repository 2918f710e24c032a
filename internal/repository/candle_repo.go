package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/pkg/cache"
	"golang-quant/pkg/logger"
)

const binanceKlineLimit = 1000

// CandleRepository serves clean OHLCV series: validated, ascending by
// timestamp and deduplicated. Recent fetches are cached per
// symbol/interval/range.
type CandleRepository interface {
	GetCandles(ctx context.Context, symbol, interval string, start, end time.Time) ([]dto.Candle, error)
}

type candleRepository struct {
	binance BinanceRepository
	cache   cache.Cache
	cfg     *config.Config
	logger  *logger.Logger
}

func NewCandleRepository(cfg *config.Config, binance BinanceRepository, c cache.Cache, log *logger.Logger) CandleRepository {
	return &candleRepository{
		binance: binance,
		cache:   c,
		cfg:     cfg,
		logger:  log,
	}
}

func (r *candleRepository) GetCandles(ctx context.Context, symbol, interval string, start, end time.Time) ([]dto.Candle, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("invalid candle range: end %s not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	cacheKey := fmt.Sprintf("candles:%s:%s:%d:%d", symbol, interval, start.UnixMilli(), end.UnixMilli())
	if cached, ok := cache.GetTyped[[]dto.Candle](r.cache, cacheKey); ok {
		return cached, nil
	}

	candles, err := r.fetchAll(ctx, symbol, interval, start, end)
	if err != nil {
		return nil, err
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	candles = dedupe(candles)

	for _, c := range candles {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid candle data for %s: %w", symbol, err)
		}
	}

	r.cache.Set(cacheKey, candles, r.cfg.Cache.CandleExpiration)

	r.logger.DebugContext(ctx, "Fetched candles",
		logger.StringField("symbol", symbol),
		logger.StringField("interval", interval),
		logger.IntField("count", len(candles)))

	return candles, nil
}

// fetchAll pages through the klines endpoint until the range is covered or
// the exchange returns a short page.
func (r *candleRepository) fetchAll(ctx context.Context, symbol, interval string, start, end time.Time) ([]dto.Candle, error) {
	barDuration, err := dto.IntervalDuration(interval)
	if err != nil {
		return nil, err
	}

	var candles []dto.Candle
	cursor := start.UnixMilli()
	endMs := end.UnixMilli()

	for cursor < endMs {
		klines, err := r.binance.GetKlines(ctx, symbol, interval, binanceKlineLimit, cursor, endMs)
		if err != nil {
			return nil, err
		}
		if len(klines) == 0 {
			break
		}

		for _, k := range klines {
			candles = append(candles, dto.Candle{
				Timestamp: time.UnixMilli(k.OpenTime).UTC(),
				Open:      k.Open,
				High:      k.High,
				Low:       k.Low,
				Close:     k.Close,
				Volume:    k.Volume,
			})
		}

		if len(klines) < binanceKlineLimit {
			break
		}
		cursor = klines[len(klines)-1].OpenTime + barDuration.Milliseconds()
	}

	return candles, nil
}

func dedupe(candles []dto.Candle) []dto.Candle {
	if len(candles) < 2 {
		return candles
	}
	out := candles[:1]
	for _, c := range candles[1:] {
		if !c.Timestamp.Equal(out[len(out)-1].Timestamp) {
			out = append(out, c)
		}
	}
	return out
}
