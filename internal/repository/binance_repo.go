package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/pkg/httpclient"
	"golang-quant/pkg/logger"

	"golang.org/x/time/rate"
)

// BinanceRepository fetches market data from the Binance public REST API.
type BinanceRepository interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int, startTime, endTime int64) ([]dto.BinanceKline, error)
	GetLastPrice(ctx context.Context, symbol string) (*dto.BinancePrice, error)
}

type binanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewBinanceRepository(cfg *config.Config, log *logger.Logger) BinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Binance.MaxRequestPerMinute)
	return &binanceRepository{
		httpClient:     httpclient.New(cfg.Binance.BaseURL, cfg.Binance.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *binanceRepository) GetKlines(ctx context.Context, symbol, interval string, limit int, startTime, endTime int64) ([]dto.BinanceKline, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/api/v3/klines"
	queryParams := map[string]string{
		"symbol":   symbol,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	}
	if startTime > 0 {
		queryParams["startTime"] = strconv.FormatInt(startTime, 10)
	}
	if endTime > 0 {
		queryParams["endTime"] = strconv.FormatInt(endTime, 10)
	}

	var klines [][]interface{}
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &klines)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch klines from binance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Binance API returned Non-OK status for klines",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	result := make([]dto.BinanceKline, 0, len(klines))
	for _, k := range klines {
		if len(k) < 9 {
			continue
		}
		openTime, _ := k[0].(float64)
		open, _ := strconv.ParseFloat(k[1].(string), 64)
		high, _ := strconv.ParseFloat(k[2].(string), 64)
		low, _ := strconv.ParseFloat(k[3].(string), 64)
		closePrice, _ := strconv.ParseFloat(k[4].(string), 64)
		volume, _ := strconv.ParseFloat(k[5].(string), 64)
		closeTime, _ := k[6].(float64)
		quoteAssetVolume, _ := strconv.ParseFloat(k[7].(string), 64)
		trades, _ := k[8].(float64)

		result = append(result, dto.BinanceKline{
			OpenTime:         int64(openTime),
			Open:             open,
			High:             high,
			Low:              low,
			Close:            closePrice,
			Volume:           volume,
			CloseTime:        int64(closeTime),
			QuoteAssetVolume: quoteAssetVolume,
			NumberOfTrades:   int64(trades),
		})
	}

	return result, nil
}

func (r *binanceRepository) GetLastPrice(ctx context.Context, symbol string) (*dto.BinancePrice, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/api/v3/ticker/price"
	queryParams := map[string]string{
		"symbol": symbol,
	}

	var respData map[string]string
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &respData)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last price from binance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Binance API returned Non-OK status for price",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	price, err := strconv.ParseFloat(respData["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price from binance: %w", err)
	}

	return &dto.BinancePrice{Symbol: symbol, Price: price}, nil
}
