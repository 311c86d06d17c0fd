package market

import "strings"

// Kind identifies the query type a cache key belongs to.
type Kind int

const (
	KindPrice Kind = iota + 1
	KindGlobalStats
	KindTopMovers
	KindTrending
)

// Key is a typed cache key. Its String form is the flat key stored in the cache.
type Key struct {
	Kind   Kind
	Symbol string
}

// PriceKey returns the spot price key for symbol, uppercased.
func PriceKey(symbol string) Key {
	return Key{Kind: KindPrice, Symbol: NormalizeSymbol(symbol)}
}

// GlobalStatsKey returns the constant global stats key.
func GlobalStatsKey() Key {
	return Key{Kind: KindGlobalStats}
}

// MoversKey returns the top movers key. The limit is not part of the key:
// a result cached for one limit is served to callers asking for another
// until it expires.
func MoversKey(_ int) Key {
	return Key{Kind: KindTopMovers}
}

// TrendingKey returns the trending key. Like MoversKey it ignores the limit.
func TrendingKey(_ int) Key {
	return Key{Kind: KindTrending}
}

func (k Key) String() string {
	switch k.Kind {
	case KindPrice:
		return "price_" + k.Symbol
	case KindGlobalStats:
		return "global_stats"
	case KindTopMovers:
		return "top_movers"
	case KindTrending:
		return "trending"
	default:
		return "unknown"
	}
}

// NormalizeSymbol trims and uppercases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (k Kind) String() string {
	switch k {
	case KindPrice:
		return "price"
	case KindGlobalStats:
		return "global_stats"
	case KindTopMovers:
		return "top_movers"
	case KindTrending:
		return "trending"
	default:
		return "unknown"
	}
}
