package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mselser95/crypto-tracker/internal/market"
	"github.com/mselser95/crypto-tracker/pkg/types"
	"go.uber.org/zap"
)

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 90
	maxListLimit       = 50
)

// MarketData is the read side of the market data accessor.
type MarketData interface {
	CurrentPrice(ctx context.Context, symbol string) (*types.PriceSnapshot, bool)
	Historical(ctx context.Context, symbol string, days int) (*types.HistoricalSeries, bool)
	GlobalStats(ctx context.Context) (*types.GlobalStats, bool)
	TopMovers(ctx context.Context, limit int) (*types.TopMoversResult, bool)
	Trending(ctx context.Context, limit int) ([]types.CoinEntry, bool)
}

// MarketHandler handles HTTP requests for market data.
type MarketHandler struct {
	market MarketData
	logger *zap.Logger
}

// NewMarketHandler creates a new market data handler.
func NewMarketHandler(md MarketData, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		market: md,
		logger: logger,
	}
}

func (h *MarketHandler) unavailable(w http.ResponseWriter, what string) {
	writeError(w, h.logger, what+" unavailable", http.StatusServiceUnavailable)
}

// HandlePrice handles GET /api/price/{symbol}.
func (h *MarketHandler) HandlePrice(w http.ResponseWriter, r *http.Request) {
	symbol := market.NormalizeSymbol(chi.URLParam(r, "symbol"))

	h.logger.Debug("price-request-received", zap.String("symbol", symbol))

	snapshot, ok := h.market.CurrentPrice(r.Context(), symbol)
	if !ok {
		h.unavailable(w, "price data for "+symbol)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, snapshot)
}

// HandleHistory handles GET /api/history/{symbol}?days=N.
func (h *MarketHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := market.NormalizeSymbol(chi.URLParam(r, "symbol"))

	days, err := intParam(r, "days", defaultHistoryDays, maxHistoryDays)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}

	series, ok := h.market.Historical(r.Context(), symbol, days)
	if !ok {
		h.unavailable(w, "historical data for "+symbol)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, series)
}

// HandleGlobal handles GET /api/global.
func (h *MarketHandler) HandleGlobal(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.market.GlobalStats(r.Context())
	if !ok {
		h.unavailable(w, "global statistics")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, stats)
}

// HandleMovers handles GET /api/movers?limit=N.
func (h *MarketHandler) HandleMovers(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", market.DefaultMoversLimit, maxListLimit)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}

	movers, ok := h.market.TopMovers(r.Context(), limit)
	if !ok {
		h.unavailable(w, "top movers")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, movers)
}

// TrendingResponse wraps the trending listing.
type TrendingResponse struct {
	Coins []types.CoinEntry `json:"coins"`
}

// HandleTrending handles GET /api/trending?limit=N.
func (h *MarketHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", market.DefaultMoversLimit, maxListLimit)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}

	coins, ok := h.market.Trending(r.Context(), limit)
	if !ok {
		h.unavailable(w, "trending coins")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, TrendingResponse{Coins: coins})
}
