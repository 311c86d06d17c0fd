package types

import "time"

// PriceSnapshot is a normalized spot price.
type PriceSnapshot struct {
	Symbol   string  `json:"symbol"`
	USDPrice float64 `json:"usd_price"`
}

// HistoricalPoint is one daily candle from the histoday endpoint.
type HistoricalPoint struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	VolumeFrom float64 `json:"volumefrom"`
	VolumeTo   float64 `json:"volumeto"`
}

// Timestamp returns the candle time.
func (p HistoricalPoint) Timestamp() time.Time {
	return time.Unix(p.Time, 0)
}

// HistoricalSeries is a daily price series for one symbol.
type HistoricalSeries struct {
	Symbol string            `json:"symbol"`
	Days   int               `json:"days"`
	Points []HistoricalPoint `json:"points"`
}

// Closes returns the close prices in series order.
func (s *HistoricalSeries) Closes() []float64 {
	closes := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		closes = append(closes, p.Close)
	}
	return closes
}

// GlobalStats holds market-wide totals.
type GlobalStats struct {
	TotalMarketCap         float64 `json:"total_mcap"`
	TotalVolume24h         float64 `json:"total_volume24h"`
	ActiveCryptocurrencies int64   `json:"active_cryptocurrencies"`
}

// CoinEntry is one coin from the top-by-volume listing.
type CoinEntry struct {
	Name           string  `json:"name"`
	FullName       string  `json:"full_name"`
	PriceUSD       float64 `json:"price_usd"`
	ChangePct24h   float64 `json:"change_pct_24h"`
	TotalVolume24h float64 `json:"total_volume_24h"`
}

// TopMoversResult holds the gainers (highest change first) and losers
// (lowest change first) derived from a single candidate listing.
type TopMoversResult struct {
	Gainers []CoinEntry `json:"gainers"`
	Losers  []CoinEntry `json:"losers"`
}
