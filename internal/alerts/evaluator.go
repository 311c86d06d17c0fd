package alerts

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Evaluator owns the alert set and evaluates threshold crossings.
// It is safe for concurrent use.
type Evaluator struct {
	mu     sync.Mutex
	alerts map[string]*Alert
	order  []string // insertion order; re-setting a symbol keeps its slot
	now    func() time.Time
	logger *zap.Logger
}

// Config holds evaluator configuration.
type Config struct {
	Logger *zap.Logger
	Now    func() time.Time // defaults to time.Now
}

// NewEvaluator creates an empty evaluator.
func NewEvaluator(cfg *Config) *Evaluator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		alerts: make(map[string]*Alert),
		now:    now,
		logger: logger,
	}
}

// Set inserts or replaces the alert for symbol. The new alert is armed.
func (e *Evaluator) Set(symbol string, high, low float64) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	if _, exists := e.alerts[symbol]; !exists {
		e.order = append(e.order, symbol)
	}
	e.alerts[symbol] = &Alert{
		Symbol: symbol,
		High:   high,
		Low:    low,
		State:  State{Phase: Armed},
	}
	ActiveAlerts.Set(float64(len(e.alerts)))
	e.mu.Unlock()

	e.logger.Info("alert-set",
		zap.String("symbol", symbol),
		zap.Float64("high", high),
		zap.Float64("low", low))
}

// Remove deletes the alert for symbol and reports whether one existed.
func (e *Evaluator) Remove(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.alerts[symbol]; !exists {
		return false
	}

	delete(e.alerts, symbol)
	for i, s := range e.order {
		if s == symbol {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	ActiveAlerts.Set(float64(len(e.alerts)))

	e.logger.Info("alert-removed", zap.String("symbol", symbol))
	return true
}

// Check evaluates every armed alert that has a price in prices and returns
// the triggered events in alert order. Alerts without a price are skipped.
// A high crossing takes precedence over a low crossing.
func (e *Evaluator) Check(prices map[string]float64) []Event {
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	var events []Event
	for _, symbol := range e.order {
		alert := e.alerts[symbol]

		price, ok := prices[symbol]
		if !ok {
			continue
		}

		if !alert.State.armedAt(now) {
			continue
		}

		var direction Direction
		switch {
		case price >= alert.High:
			direction = Above
		case price <= alert.Low:
			direction = Below
		default:
			continue
		}

		alert.State = State{Phase: CoolingDown, TriggeredAt: now}
		AlertsTriggeredTotal.WithLabelValues(string(direction)).Inc()

		events = append(events, Event{
			ID:          uuid.New().String(),
			Symbol:      symbol,
			Price:       price,
			Direction:   direction,
			High:        alert.High,
			Low:         alert.Low,
			TriggeredAt: now,
		})

		e.logger.Info("alert-triggered",
			zap.String("symbol", symbol),
			zap.Float64("price", price),
			zap.String("direction", string(direction)))
	}

	return events
}

// List returns the thresholds of all alerts in alert order.
func (e *Evaluator) List() []Thresholds {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Thresholds, 0, len(e.order))
	for _, symbol := range e.order {
		alert := e.alerts[symbol]
		out = append(out, Thresholds{
			Symbol: alert.Symbol,
			High:   alert.High,
			Low:    alert.Low,
		})
	}
	return out
}

// Symbols returns the symbols that have an alert, in alert order.
func (e *Evaluator) Symbols() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// State returns the current state of the alert for symbol.
func (e *Evaluator) State(symbol string) (State, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	defer e.mu.Unlock()

	alert, ok := e.alerts[symbol]
	if !ok {
		return State{}, false
	}
	return alert.State, true
}
