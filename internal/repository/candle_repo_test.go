package repository

import (
	"context"
	"testing"
	"time"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/pkg/cache"
	"golang-quant/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBinanceRepo struct {
	klines []dto.BinanceKline
	calls  int
}

func (f *fakeBinanceRepo) GetKlines(ctx context.Context, symbol, interval string, limit int, startTime, endTime int64) ([]dto.BinanceKline, error) {
	f.calls++
	return f.klines, nil
}

func (f *fakeBinanceRepo) GetLastPrice(ctx context.Context, symbol string) (*dto.BinancePrice, error) {
	return &dto.BinancePrice{Symbol: symbol, Price: 100}, nil
}

func kline(openTime time.Time, close float64) dto.BinanceKline {
	return dto.BinanceKline{
		OpenTime: openTime.UnixMilli(),
		Open:     close,
		High:     close + 1,
		Low:      close - 1,
		Close:    close,
		Volume:   100,
	}
}

func newTestCandleRepo(binance BinanceRepository) CandleRepository {
	cfg := &config.Config{
		Cache: config.Cache{CandleExpiration: time.Minute},
	}
	return NewCandleRepository(cfg, binance, cache.NewCache(time.Minute, time.Minute), logger.NewNop())
}

func TestGetCandles_SortsAndDeduplicates(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeBinanceRepo{klines: []dto.BinanceKline{
		kline(base.Add(2*time.Hour), 102),
		kline(base, 100),
		kline(base.Add(time.Hour), 101),
		kline(base.Add(time.Hour), 101),
	}}
	repo := newTestCandleRepo(fake)

	candles, err := repo.GetCandles(context.Background(), "BTCUSDT", "1h", base, base.Add(3*time.Hour))
	require.NoError(t, err)

	require.Len(t, candles, 3)
	assert.Equal(t, base, candles[0].Timestamp)
	assert.Equal(t, base.Add(time.Hour), candles[1].Timestamp)
	assert.Equal(t, base.Add(2*time.Hour), candles[2].Timestamp)
	assert.InDelta(t, 101, candles[1].Close, 1e-9)
}

func TestGetCandles_CachesResult(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeBinanceRepo{klines: []dto.BinanceKline{kline(base, 100)}}
	repo := newTestCandleRepo(fake)

	_, err := repo.GetCandles(context.Background(), "BTCUSDT", "1h", base, base.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.GetCandles(context.Background(), "BTCUSDT", "1h", base, base.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls)
}

func TestGetCandles_RejectsInvalidRange(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newTestCandleRepo(&fakeBinanceRepo{})

	_, err := repo.GetCandles(context.Background(), "BTCUSDT", "1h", base, base)
	assert.ErrorContains(t, err, "invalid candle range")
}

func TestGetCandles_RejectsInvalidData(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bad := kline(base, 100)
	bad.High = 90
	repo := newTestCandleRepo(&fakeBinanceRepo{klines: []dto.BinanceKline{bad}})

	_, err := repo.GetCandles(context.Background(), "BTCUSDT", "1h", base, base.Add(time.Hour))
	assert.ErrorContains(t, err, "invalid candle data")
}
