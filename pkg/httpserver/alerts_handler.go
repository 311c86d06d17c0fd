package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/mselser95/crypto-tracker/internal/alerts"
	"github.com/mselser95/crypto-tracker/internal/market"
	"go.uber.org/zap"
)

// AlertsHandler handles HTTP requests for price alerts.
type AlertsHandler struct {
	evaluator *alerts.Evaluator
	logger    *zap.Logger
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(evaluator *alerts.Evaluator, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{
		evaluator: evaluator,
		logger:    logger,
	}
}

// AlertView is an alert with its current state.
type AlertView struct {
	alerts.Thresholds
	State       string     `json:"state"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
}

// AlertsResponse lists the configured alerts in insertion order.
type AlertsResponse struct {
	Alerts []AlertView `json:"alerts"`
}

// SetAlertRequest is the body of PUT /api/alerts/{symbol}. Thresholds may be
// JSON numbers or numeric strings.
type SetAlertRequest struct {
	High interface{} `json:"high"`
	Low  interface{} `json:"low"`
}

// HandleList handles GET /api/alerts.
func (h *AlertsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	thresholds := h.evaluator.List()

	views := make([]AlertView, 0, len(thresholds))
	for _, t := range thresholds {
		view := AlertView{Thresholds: t, State: alerts.Armed.String()}
		if state, ok := h.evaluator.State(t.Symbol); ok {
			view.State = state.Phase.String()
			if state.Phase == alerts.CoolingDown {
				triggeredAt := state.TriggeredAt
				view.TriggeredAt = &triggeredAt
			}
		}
		views = append(views, view)
	}

	writeJSON(w, h.logger, http.StatusOK, AlertsResponse{Alerts: views})
}

// HandleSet handles PUT /api/alerts/{symbol}.
func (h *AlertsHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	symbol := market.NormalizeSymbol(chi.URLParam(r, "symbol"))

	var req SetAlertRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	high, low, err := alerts.ParseThresholds(thresholdString(req.High), thresholdString(req.Low))
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}

	h.evaluator.Set(symbol, high, low)

	writeJSON(w, h.logger, http.StatusOK, alerts.Thresholds{Symbol: symbol, High: high, Low: low})
}

// HandleRemove handles DELETE /api/alerts/{symbol}.
func (h *AlertsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	symbol := market.NormalizeSymbol(chi.URLParam(r, "symbol"))

	if !h.evaluator.Remove(symbol) {
		writeError(w, h.logger, "no alert found for "+symbol, http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func thresholdString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
