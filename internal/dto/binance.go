package dto

// BinanceKline is one kline row from the Binance REST API, decoded out of
// its positional-array wire form.
type BinanceKline struct {
	OpenTime         int64
	Open             float64
	High             float64
	Low              float64
	Close            float64
	Volume           float64
	CloseTime        int64
	QuoteAssetVolume float64
	NumberOfTrades   int64
}

type BinancePrice struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}
