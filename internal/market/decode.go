package market

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mselser95/crypto-tracker/pkg/types"
)

// Each decoder checks the endpoint's marker field before anything else and
// returns *types.InvalidFormatError when it is missing. A body that is not a
// JSON object is a *types.TransportError.

func decodeObject(endpoint string, body []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	err := json.Unmarshal(body, &obj)
	if err != nil {
		return nil, &types.TransportError{Endpoint: endpoint, Err: fmt.Errorf("malformed body: %w", err)}
	}
	if obj == nil {
		return nil, &types.TransportError{Endpoint: endpoint, Err: fmt.Errorf("malformed body: not a JSON object")}
	}
	return obj, nil
}

func hasField(obj map[string]json.RawMessage, field string) bool {
	raw, ok := obj[field]
	return ok && string(raw) != "null"
}

// apiMessage extracts the API's error message, if any, for diagnostics.
func apiMessage(obj map[string]json.RawMessage) string {
	var msg string
	if raw, ok := obj["Message"]; ok {
		_ = json.Unmarshal(raw, &msg)
	}
	return msg
}

func decodePrice(symbol string, body []byte) (types.PriceSnapshot, error) {
	obj, err := decodeObject(EndpointPrice, body)
	if err != nil {
		return types.PriceSnapshot{}, err
	}

	if !hasField(obj, "USD") {
		reason := "missing USD field"
		if msg := apiMessage(obj); msg != "" {
			reason = fmt.Sprintf("%s (%s)", reason, msg)
		}
		return types.PriceSnapshot{}, &types.InvalidFormatError{Endpoint: EndpointPrice, Reason: reason}
	}

	var price float64
	err = json.Unmarshal(obj["USD"], &price)
	if err != nil {
		return types.PriceSnapshot{}, &types.InvalidFormatError{Endpoint: EndpointPrice, Reason: "USD is not a number"}
	}

	return types.PriceSnapshot{Symbol: symbol, USDPrice: price}, nil
}

type histoDayResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []types.HistoricalPoint `json:"Data"`
	} `json:"Data"`
}

func decodeHistorical(symbol string, days int, body []byte) (types.HistoricalSeries, error) {
	if _, err := decodeObject(EndpointHistoDay, body); err != nil {
		return types.HistoricalSeries{}, err
	}

	// A Data value that is not the nested points object is a format error,
	// not an empty series.
	var resp histoDayResponse
	err := json.Unmarshal(body, &resp)
	if err != nil {
		return types.HistoricalSeries{}, &types.InvalidFormatError{Endpoint: EndpointHistoDay, Reason: err.Error()}
	}

	if resp.Response != "Success" {
		reason := fmt.Sprintf("Response is %q", resp.Response)
		if resp.Message != "" {
			reason = fmt.Sprintf("%s (%s)", reason, resp.Message)
		}
		return types.HistoricalSeries{}, &types.InvalidFormatError{Endpoint: EndpointHistoDay, Reason: reason}
	}

	return types.HistoricalSeries{
		Symbol: symbol,
		Days:   days,
		Points: resp.Data.Data,
	}, nil
}

type globalFields struct {
	TotalMarketCap         float64 `json:"total_mcap"`
	TotalVolume24h         float64 `json:"total_volume24h"`
	TotalVolume            float64 `json:"total_volume"`
	ActiveCryptocurrencies int64   `json:"active_cryptocurrencies"`
}

func decodeGlobalStats(body []byte) (types.GlobalStats, error) {
	obj, err := decodeObject(EndpointGlobal, body)
	if err != nil {
		return types.GlobalStats{}, err
	}

	if _, ok := obj["Response"]; !ok {
		return types.GlobalStats{}, &types.InvalidFormatError{Endpoint: EndpointGlobal, Reason: "missing Response field"}
	}

	// Totals are either nested under Data or at the top level.
	var fields globalFields
	source := body
	if hasField(obj, "Data") {
		source = obj["Data"]
	}
	err = json.Unmarshal(source, &fields)
	if err != nil {
		return types.GlobalStats{}, &types.InvalidFormatError{Endpoint: EndpointGlobal, Reason: err.Error()}
	}

	volume := fields.TotalVolume24h
	if volume == 0 {
		volume = fields.TotalVolume
	}

	return types.GlobalStats{
		TotalMarketCap:         fields.TotalMarketCap,
		TotalVolume24h:         volume,
		ActiveCryptocurrencies: fields.ActiveCryptocurrencies,
	}, nil
}

type topCoin struct {
	CoinInfo struct {
		Name     string `json:"Name"`
		FullName string `json:"FullName"`
	} `json:"CoinInfo"`
	RAW *struct {
		USD *struct {
			Price          float64 `json:"PRICE"`
			ChangePct24h   float64 `json:"CHANGEPCT24HOUR"`
			TotalVolume24h float64 `json:"TOTALVOLUME24HTO"`
		} `json:"USD"`
	} `json:"RAW"`
}

// decodeTopCoins returns candidates in response order. Coins without USD
// market data are dropped.
func decodeTopCoins(body []byte) ([]types.CoinEntry, error) {
	obj, err := decodeObject(EndpointTopTotalVol, body)
	if err != nil {
		return nil, err
	}

	if !hasField(obj, "Data") {
		reason := "missing Data field"
		if msg := apiMessage(obj); msg != "" {
			reason = fmt.Sprintf("%s (%s)", reason, msg)
		}
		return nil, &types.InvalidFormatError{Endpoint: EndpointTopTotalVol, Reason: reason}
	}

	var coins []topCoin
	err = json.Unmarshal(obj["Data"], &coins)
	if err != nil {
		return nil, &types.InvalidFormatError{Endpoint: EndpointTopTotalVol, Reason: err.Error()}
	}

	entries := make([]types.CoinEntry, 0, len(coins))
	for _, coin := range coins {
		if coin.RAW == nil || coin.RAW.USD == nil {
			continue
		}
		entries = append(entries, types.CoinEntry{
			Name:           coin.CoinInfo.Name,
			FullName:       coin.CoinInfo.FullName,
			PriceUSD:       coin.RAW.USD.Price,
			ChangePct24h:   coin.RAW.USD.ChangePct24h,
			TotalVolume24h: coin.RAW.USD.TotalVolume24h,
		})
	}

	return entries, nil
}
