package market

import (
	"sort"

	"github.com/mselser95/crypto-tracker/pkg/types"
)

// SplitMovers derives gainers and losers from a candidate listing.
// Candidates are stable-sorted ascending by 24h change; losers are the first
// limit entries (lowest first) and gainers the last limit entries (highest
// first). With fewer than 2*limit candidates the slices are shorter and may
// overlap.
func SplitMovers(candidates []types.CoinEntry, limit int) types.TopMoversResult {
	if limit <= 0 || len(candidates) == 0 {
		return types.TopMoversResult{Gainers: []types.CoinEntry{}, Losers: []types.CoinEntry{}}
	}

	sorted := make([]types.CoinEntry, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangePct24h < sorted[j].ChangePct24h
	})

	n := min(limit, len(sorted))

	losers := make([]types.CoinEntry, n)
	copy(losers, sorted[:n])

	gainers := make([]types.CoinEntry, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		gainers = append(gainers, sorted[i])
	}

	return types.TopMoversResult{Gainers: gainers, Losers: losers}
}
