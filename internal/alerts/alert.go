package alerts

import (
	"strconv"
	"strings"
	"time"

	"github.com/mselser95/crypto-tracker/pkg/types"
)

// Cooldown is how long an alert stays quiet after it triggers.
const Cooldown = time.Hour

// Phase is the state of an alert.
type Phase int

const (
	// Armed alerts trigger on the next threshold crossing.
	Armed Phase = iota
	// CoolingDown alerts ignore crossings until the cooldown elapses.
	CoolingDown
)

func (p Phase) String() string {
	switch p {
	case Armed:
		return "armed"
	case CoolingDown:
		return "cooling_down"
	default:
		return "unknown"
	}
}

// State is the alert state machine. TriggeredAt is only meaningful while
// CoolingDown.
type State struct {
	Phase       Phase
	TriggeredAt time.Time
}

// armedAt reports whether the alert may trigger at now, i.e. it is Armed or
// its cooldown has strictly elapsed.
func (s State) armedAt(now time.Time) bool {
	switch s.Phase {
	case Armed:
		return true
	case CoolingDown:
		return now.Sub(s.TriggeredAt) > Cooldown
	default:
		return false
	}
}

// Direction is the threshold crossed by a triggered alert.
type Direction string

const (
	Above Direction = "above"
	Below Direction = "below"
)

// Alert is a pair of price thresholds for one symbol.
type Alert struct {
	Symbol string
	High   float64
	Low    float64
	State  State
}

// Thresholds is the read-only view returned by List.
type Thresholds struct {
	Symbol string  `json:"symbol"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
}

// Event is a single alert trigger.
type Event struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Direction   Direction `json:"direction"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// ParseThresholds parses user supplied high and low thresholds.
func ParseThresholds(high, low string) (float64, float64, error) {
	h, err := parseThreshold("high threshold", high)
	if err != nil {
		return 0, 0, err
	}

	l, err := parseThreshold("low threshold", low)
	if err != nil {
		return 0, 0, err
	}

	return h, l, nil
}

func parseThreshold(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &types.ValidationError{Field: field, Value: value, Message: "must be a number"}
	}
	return v, nil
}
