package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/fingate/auth"
	"github.com/jonwraymond/fingate/fault"
	"github.com/jonwraymond/fingate/resilience"
)

func newTestClient(t *testing.T, baseURL string, overrides ...func(*Config)) *Client {
	t.Helper()
	config := Config{
		ServiceName:      "test-service",
		BaseURL:          baseURL,
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
		MaxRetries:       -1,
	}
	for _, o := range overrides {
		o(&config)
	}
	c, err := New(config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestAttachesBearerTokenFromContext(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := auth.WithBearerToken(context.Background(), "tok123")
	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if got := gotAuth.Load(); got != "Bearer tok123" {
		t.Errorf("Authorization header = %q, want %q", got, "Bearer tok123")
	}
}

func TestClientErrorsNeverOpenBreaker(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"error_message": "no such resource"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 5; i++ {
		err := c.Health(context.Background())
		if !fault.IsCode(err, fault.CodeNotFound) {
			t.Fatalf("Health() error = %v, want NOT_FOUND", err)
		}
	}

	snap := c.BreakerSnapshot()
	if snap.State != resilience.StateClosed {
		t.Errorf("breaker state after 5x 404 = %v, want closed", snap.State)
	}
	if snap.Failures != 0 {
		t.Errorf("breaker failures after 5x 404 = %d, want 0", snap.Failures)
	}
	if calls.Load() != 5 {
		t.Errorf("downstream calls = %d, want 5 (4xx is never retried)", calls.Load())
	}
}

func TestServerErrorsOpenBreakerAndFailFast(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 3; i++ {
		err := c.Health(context.Background())
		if !fault.IsCode(err, fault.CodeService) {
			t.Fatalf("Health() error = %v, want SERVICE_ERROR", err)
		}
	}
	if got := c.BreakerSnapshot().State; got != resilience.StateOpen {
		t.Fatalf("breaker state after threshold = %v, want open", got)
	}

	// Open circuit: fail fast, zero network I/O.
	before := calls.Load()
	for i := 0; i < 4; i++ {
		err := c.Health(context.Background())
		if !fault.IsCode(err, fault.CodeCircuitOpen) {
			t.Fatalf("Health() while open error = %v, want CIRCUIT_OPEN", err)
		}
	}
	if calls.Load() != before {
		t.Errorf("downstream calls while open = %d, want 0", calls.Load()-before)
	}
}

func TestTransportFailureRetriedThenClassified(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Abort the connection so the client sees a transport failure.
		panic(http.ErrAbortHandler)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.MaxRetries = 2
		cfg.FailureThreshold = 10
	})

	err := c.Health(context.Background())
	if !fault.IsCode(err, fault.CodeService) {
		t.Fatalf("Health() error = %v, want SERVICE_ERROR", err)
	}
	if calls.Load() != 3 {
		t.Errorf("downstream calls = %d, want 3 (initial + 2 retries)", calls.Load())
	}
	if got := c.BreakerSnapshot().Failures; got != 3 {
		t.Errorf("breaker failures = %d, want 3 (every attempt counts)", got)
	}
}

func TestTimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.Timeout = 20 * time.Millisecond
	})

	err := c.Health(context.Background())
	if !fault.IsCode(err, fault.CodeTimeout) {
		t.Fatalf("Health() error = %v, want TIMEOUT", err)
	}
	if got := c.BreakerSnapshot().Failures; got != 1 {
		t.Errorf("breaker failures after timeout = %d, want 1", got)
	}
}

func TestIndependentClientBreakers(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer healthy.Close()

	a := newTestClient(t, failing.URL, func(cfg *Config) { cfg.FailureThreshold = 1 })
	b := newTestClient(t, healthy.URL)

	_ = a.Health(context.Background())
	if got := a.BreakerSnapshot().State; got != resilience.StateOpen {
		t.Fatalf("a breaker = %v, want open", got)
	}

	snapB := b.BreakerSnapshot()
	if snapB.State != resilience.StateClosed || snapB.Failures != 0 {
		t.Errorf("b breaker = %+v, want closed with 0 failures", snapB)
	}
	if err := b.Health(context.Background()); err != nil {
		t.Errorf("b.Health() error = %v", err)
	}
}

func TestDownstreamErrorBodyClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]any
		wantCode fault.Code
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			wantCode: fault.CodeAuthentication,
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			wantCode: fault.CodePermissionDenied,
		},
		{
			name:     "bad request",
			status:   http.StatusBadRequest,
			wantCode: fault.CodeValidation,
		},
		{
			name:     "conflict with downstream code",
			status:   http.StatusConflict,
			body:     map[string]any{"error_code": "INSUFFICIENT_FUNDS", "error_message": "not enough"},
			wantCode: fault.CodeInsufficientFunds,
		},
		{
			name:     "unprocessable without code",
			status:   http.StatusUnprocessableEntity,
			wantCode: fault.CodeBusinessRule,
		},
		{
			name:     "bad gateway",
			status:   http.StatusBadGateway,
			wantCode: fault.CodeService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != nil {
					_ = json.NewEncoder(w).Encode(tt.body)
				}
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			err := c.Health(context.Background())
			if !fault.IsCode(err, tt.wantCode) {
				t.Errorf("Health() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}
