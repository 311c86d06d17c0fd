package healthprobe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc) (int, HealthResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthChecker_Handlers(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }
	up := func(context.Context) error { return nil }

	tests := []struct {
		name        string
		ready       bool
		checks      map[string]CheckFunc
		useReady    bool
		wantStatus  int
		wantState   string
		wantUptime  bool
		wantMessage bool
		wantChecks  map[string]string
	}{
		{
			name:       "health_when_starting",
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantUptime: true,
		},
		{
			name:       "health_ignores_failing_checks",
			ready:      true,
			checks:     map[string]CheckFunc{"storage": down},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantUptime: true,
		},
		{
			name:        "ready_when_starting",
			useReady:    true,
			checks:      map[string]CheckFunc{"storage": up},
			wantStatus:  http.StatusServiceUnavailable,
			wantState:   "not_ready",
			wantMessage: true,
		},
		{
			name:       "ready_without_checks",
			ready:      true,
			useReady:   true,
			wantStatus: http.StatusOK,
			wantState:  "ready",
			wantUptime: true,
		},
		{
			name:       "ready_with_passing_checks",
			ready:      true,
			useReady:   true,
			checks:     map[string]CheckFunc{"storage": up, "cache": up},
			wantStatus: http.StatusOK,
			wantState:  "ready",
			wantUptime: true,
			wantChecks: map[string]string{"storage": "ok", "cache": "ok"},
		},
		{
			name:        "degraded_with_failing_check",
			ready:       true,
			useReady:    true,
			checks:      map[string]CheckFunc{"storage": down, "cache": up},
			wantStatus:  http.StatusServiceUnavailable,
			wantState:   "degraded",
			wantMessage: true,
			wantChecks:  map[string]string{"storage": "connection refused", "cache": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New()
			hc.SetReady(tt.ready)
			for name, check := range tt.checks {
				hc.AddCheck(name, check)
			}

			handler := hc.Health()
			if tt.useReady {
				handler = hc.Ready()
			}

			status, resp := serve(t, handler)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantState, resp.Status)
			assert.Equal(t, tt.wantUptime, resp.Uptime != "", "uptime %q", resp.Uptime)
			assert.Equal(t, tt.wantMessage, resp.Message != "", "message %q", resp.Message)
			if tt.wantChecks == nil {
				assert.Empty(t, resp.Checks)
			} else {
				assert.Equal(t, tt.wantChecks, resp.Checks)
			}
		})
	}
}

func TestReady_NotReadySkipsChecks(t *testing.T) {
	hc := New()
	called := false
	hc.AddCheck("storage", func(context.Context) error {
		called = true
		return nil
	})

	status, _ := serve(t, hc.Ready())

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.False(t, called, "checks should not run before the application is ready")
}

func TestReady_FollowsSetReady(t *testing.T) {
	hc := New()
	handler := hc.Ready()

	for _, ready := range []bool{true, false, true} {
		hc.SetReady(ready)
		status, _ := serve(t, handler)
		if ready {
			assert.Equal(t, http.StatusOK, status)
		} else {
			assert.Equal(t, http.StatusServiceUnavailable, status)
		}
	}
}

func TestAddCheck_Replaces(t *testing.T) {
	hc := New()
	hc.SetReady(true)
	hc.AddCheck("storage", func(context.Context) error { return errors.New("down") })
	hc.AddCheck("storage", func(context.Context) error { return nil })

	status, resp := serve(t, hc.Ready())

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]string{"storage": "ok"}, resp.Checks)
}

func TestReady_CheckDeadline(t *testing.T) {
	hc := New()
	hc.SetReady(true)
	hc.AddCheck("storage", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		if !ok {
			return errors.New("no deadline")
		}
		return nil
	})

	status, _ := serve(t, hc.Ready())
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthChecker_ConcurrentChecks(t *testing.T) {
	hc := New()
	hc.SetReady(true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hc.AddCheck("storage", func(context.Context) error { return nil })
		}()
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			hc.Ready()(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		}()
	}
	wg.Wait()
}
