package testutil

import (
	"fmt"
	"strings"
)

// Coin describes one entry of a top-by-volume fixture.
type Coin struct {
	Name      string
	FullName  string
	Price     float64
	ChangePct float64
	Volume    float64
}

// PriceBody returns a /price response for a USD quote.
func PriceBody(usd float64) string {
	return fmt.Sprintf(`{"USD":%g}`, usd)
}

// ErrorBody returns the error envelope the API sends with HTTP 200.
func ErrorBody(message string) string {
	return fmt.Sprintf(`{"Response":"Error","Message":%q,"Data":{}}`, message)
}

// HistoDayBody returns a successful /v2/histoday response with one candle
// per close, one day apart starting at start.
func HistoDayBody(start int64, closes ...float64) string {
	points := make([]string, 0, len(closes))
	for i, c := range closes {
		points = append(points, fmt.Sprintf(
			`{"time":%d,"open":%g,"high":%g,"low":%g,"close":%g,"volumefrom":10,"volumeto":%g}`,
			start+int64(i)*86400, c, c, c, c, c*10))
	}
	return `{"Response":"Success","Message":"","Data":{"Aggregated":false,"Data":[` +
		strings.Join(points, ",") + `]}}`
}

// GlobalBody returns a /global response.
func GlobalBody(mcap, volume float64, active int64) string {
	return fmt.Sprintf(
		`{"Response":"Success","Data":{"total_mcap":%g,"total_volume24h":%g,"active_cryptocurrencies":%d}}`,
		mcap, volume, active)
}

// TopVolumeBody returns a /top/totalvolfull response for coins.
func TopVolumeBody(coins ...Coin) string {
	entries := make([]string, 0, len(coins))
	for _, c := range coins {
		entries = append(entries, fmt.Sprintf(
			`{"CoinInfo":{"Name":%q,"FullName":%q},"RAW":{"USD":{"PRICE":%g,"CHANGEPCT24HOUR":%g,"TOTALVOLUME24HTO":%g}}}`,
			c.Name, c.FullName, c.Price, c.ChangePct, c.Volume))
	}
	return `{"Message":"Success","Type":100,"Data":[` + strings.Join(entries, ",") + `]}`
}

// CoinsWithChanges builds coins C0..Cn with the given 24h changes.
func CoinsWithChanges(changes ...float64) []Coin {
	coins := make([]Coin, 0, len(changes))
	for i, ch := range changes {
		coins = append(coins, Coin{
			Name:      fmt.Sprintf("C%d", i),
			FullName:  fmt.Sprintf("Coin %d", i),
			Price:     float64(100 + i),
			ChangePct: ch,
			Volume:    1000,
		})
	}
	return coins
}
