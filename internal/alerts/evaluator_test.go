package alerts

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mselser95/crypto-tracker/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestEvaluator() (*Evaluator, *manualClock) {
	clock := &manualClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	return NewEvaluator(&Config{Logger: zap.NewNop(), Now: clock.Now}), clock
}

func TestEvaluator_CooldownCycle(t *testing.T) {
	e, clock := newTestEvaluator()
	e.Set("BTC", 100, 50)

	events := e.Check(map[string]float64{"BTC": 150})
	require.Len(t, events, 1)
	assert.Equal(t, "BTC", events[0].Symbol)
	assert.Equal(t, 150.0, events[0].Price)
	assert.Equal(t, Above, events[0].Direction)
	assert.NotEmpty(t, events[0].ID)

	clock.Advance(time.Second)
	events = e.Check(map[string]float64{"BTC": 160})
	assert.Empty(t, events, "must not re-trigger during cooldown")

	// Exactly at the cooldown boundary the alert is still cooling down.
	clock.Advance(Cooldown - time.Second)
	events = e.Check(map[string]float64{"BTC": 160})
	assert.Empty(t, events)

	clock.Advance(time.Second)
	events = e.Check(map[string]float64{"BTC": 160})
	require.Len(t, events, 1)
	assert.Equal(t, 160.0, events[0].Price)
}

func TestEvaluator_Directions(t *testing.T) {
	tests := []struct {
		name  string
		high  float64
		low   float64
		price float64
		want  Direction
	}{
		{name: "above-at-high", high: 100, low: 50, price: 100, want: Above},
		{name: "above-over-high", high: 100, low: 50, price: 101, want: Above},
		{name: "below-at-low", high: 100, low: 50, price: 50, want: Below},
		{name: "below-under-low", high: 100, low: 50, price: 10, want: Below},
		{name: "inside-band", high: 100, low: 50, price: 75, want: ""},
		{name: "degenerate-high-wins", high: 50, low: 100, price: 75, want: Above},
		{name: "equal-thresholds-high-wins", high: 60, low: 60, price: 60, want: Above},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEvaluator()
			e.Set("ETH", tt.high, tt.low)

			events := e.Check(map[string]float64{"ETH": tt.price})
			if tt.want == "" {
				assert.Empty(t, events)
				state, _ := e.State("ETH")
				assert.Equal(t, Armed, state.Phase, "non-trigger must not transition")
				return
			}

			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].Direction)
		})
	}
}

func TestEvaluator_SkipsMissingSymbols(t *testing.T) {
	e, _ := newTestEvaluator()
	e.Set("BTC", 100, 50)
	e.Set("ETH", 10, 5)

	events := e.Check(map[string]float64{"ETH": 20})
	require.Len(t, events, 1)
	assert.Equal(t, "ETH", events[0].Symbol)

	state, ok := e.State("BTC")
	require.True(t, ok)
	assert.Equal(t, Armed, state.Phase, "missing symbol must not transition")
}

func TestEvaluator_EventsInAlertOrder(t *testing.T) {
	e, _ := newTestEvaluator()
	e.Set("DOGE", 1, 0)
	e.Set("BTC", 1, 0)
	e.Set("ADA", 1, 0)
	e.Set("doge", 2, 0) // overwrite keeps position

	events := e.Check(map[string]float64{"ADA": 5, "BTC": 5, "DOGE": 5})

	require.Len(t, events, 3)
	assert.Equal(t, "DOGE", events[0].Symbol)
	assert.Equal(t, "BTC", events[1].Symbol)
	assert.Equal(t, "ADA", events[2].Symbol)
	assert.Equal(t, 2.0, events[0].High)
}

func TestEvaluator_SetResetsCooldown(t *testing.T) {
	e, _ := newTestEvaluator()
	e.Set("BTC", 100, 50)

	require.Len(t, e.Check(map[string]float64{"BTC": 150}), 1)
	state, _ := e.State("btc")
	assert.Equal(t, CoolingDown, state.Phase)

	e.Set("btc", 100, 50)
	state, _ = e.State("BTC")
	assert.Equal(t, Armed, state.Phase)

	assert.Len(t, e.Check(map[string]float64{"BTC": 150}), 1)
}

func TestEvaluator_Remove(t *testing.T) {
	e, _ := newTestEvaluator()

	assert.False(t, e.Remove("BTC"), "removing a nonexistent alert returns false")

	e.Set("BTC", 100, 50)
	e.Set("ETH", 100, 50)
	assert.True(t, e.Remove("btc"))
	assert.False(t, e.Remove("BTC"))

	events := e.Check(map[string]float64{"BTC": 500, "ETH": 500})
	require.Len(t, events, 1)
	assert.Equal(t, "ETH", events[0].Symbol)
	assert.Equal(t, []string{"ETH"}, e.Symbols())
}

func TestEvaluator_List(t *testing.T) {
	e, _ := newTestEvaluator()
	assert.Empty(t, e.List())

	e.Set("btc", 70000, 60000)
	e.Set("eth", 4000, 3000)

	assert.Equal(t, []Thresholds{
		{Symbol: "BTC", High: 70000, Low: 60000},
		{Symbol: "ETH", High: 4000, Low: 3000},
	}, e.List())
}

func TestEvaluator_ConcurrentAccess(t *testing.T) {
	e := NewEvaluator(&Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				e.Set("BTC", 100, 50)
				e.Remove("ETH")
			}
		}()
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				e.Check(map[string]float64{"BTC": float64(i * 20)})
				e.List()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []string{"BTC"}, e.Symbols())
}

func TestParseThresholds(t *testing.T) {
	high, low, err := ParseThresholds(" 70000.5 ", "60000")
	require.NoError(t, err)
	assert.Equal(t, 70000.5, high)
	assert.Equal(t, 60000.0, low)

	_, _, err = ParseThresholds("lots", "1")
	require.Error(t, err)
	var validationErr *types.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "high threshold", validationErr.Field)

	_, _, err = ParseThresholds("1", "")
	require.Error(t, err)
	assert.Equal(t, types.KindValidation, types.ErrorKind(err))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "armed", Armed.String())
	assert.Equal(t, "cooling_down", CoolingDown.String())
	assert.Equal(t, "unknown", Phase(9).String())
}
