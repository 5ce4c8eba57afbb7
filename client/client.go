package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonwraymond/fingate/auth"
	"github.com/jonwraymond/fingate/fault"
	"github.com/jonwraymond/fingate/observe"
	"github.com/jonwraymond/fingate/resilience"
)

// Config configures a downstream service client.
type Config struct {
	// ServiceName identifies the downstream in errors, logs, and metrics.
	ServiceName string

	// BaseURL is the downstream service root, e.g. "http://accounts:8080".
	BaseURL string

	// HTTPClient is the underlying transport. Its connection pool is the
	// only state shared between concurrent calls besides the breaker.
	// Default: http.DefaultClient
	HTTPClient *http.Client

	// Timeout bounds each attempt.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxRetries is the number of re-attempts for transient transport
	// failures. Server errors are not retried: re-sending into an
	// overloaded service only amplifies the overload.
	// Default: 2
	MaxRetries int

	// FailureThreshold is the consecutive qualifying failures that open
	// the circuit.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open.
	// Default: 30 seconds
	RecoveryTimeout time.Duration

	// MaxConcurrent caps in-flight requests to this downstream.
	// Default: 32
	MaxConcurrent int

	// BearerToken supplies the token attached to each request.
	// Default: the caller's token forwarded via auth.WithBearerToken.
	BearerToken func(ctx context.Context) string

	// Logger receives request-level diagnostics. Optional.
	Logger observe.Logger

	// OnBreakerChange is invoked on circuit state transitions. Optional.
	OnBreakerChange func(from, to resilience.State)
}

// Client is the generic resilient request executor the typed clients are
// built on. Each Client owns its breaker; two clients never share failure
// state.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	exec    *resilience.Executor
	token   func(ctx context.Context) string
	logger  observe.Logger
}

// New creates a client for one downstream service.
func New(config Config) (*Client, error) {
	if config.ServiceName == "" {
		return nil, errors.New("client: service name is required")
	}
	if config.BaseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.BearerToken == nil {
		config.BearerToken = auth.BearerTokenFrom
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: config.FailureThreshold,
		RecoveryTimeout:  config.RecoveryTimeout,
		IsFailure:        isBreakerFailure,
		OnStateChange:    config.OnBreakerChange,
	})
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxRetries: config.MaxRetries,
		RetryIf:    isTransient,
		Jitter:     true,
	})
	timeout := resilience.NewTimeout(resilience.TimeoutConfig{Timeout: config.Timeout})
	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: config.MaxConcurrent})

	return &Client{
		name:    config.ServiceName,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http:    config.HTTPClient,
		exec: resilience.NewExecutor(
			resilience.WithBulkhead(bulkhead),
			resilience.WithRetry(retry),
			resilience.WithCircuitBreaker(breaker),
			resilience.WithTimeout(timeout),
		),
		token:  config.BearerToken,
		logger: config.Logger,
	}, nil
}

// BreakerSnapshot exposes the circuit state for monitoring consumers.
func (c *Client) BreakerSnapshot() resilience.Snapshot {
	return c.exec.CircuitBreaker().Snapshot()
}

// Health pings the downstream health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// transportError marks a connection-level failure: qualifies for the breaker
// and for retry.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "transport failure: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// statusError carries a non-2xx downstream response.
type statusError struct {
	status int
	body   apiError
}

func (e *statusError) Error() string {
	return fmt.Sprintf("downstream status %d: %s", e.status, e.body.Message)
}

// apiError is the downstream error body shape.
type apiError struct {
	Code    string         `json:"error_code"`
	Message string         `json:"error_message"`
	Details map[string]any `json:"details,omitempty"`
}

// isBreakerFailure reports whether an attempt outcome counts toward opening
// the circuit. Transport failures, timeouts, and 5xx responses qualify; 4xx
// responses are a rejected request against a live service and never do.
func isBreakerFailure(err error) bool {
	if err == nil {
		return false
	}
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, resilience.ErrTimeout) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= 500
	}
	return false
}

// isTransient reports whether an attempt may be retried. Only transport
// failures and timeouts qualify.
func isTransient(err error) bool {
	var te *transportError
	return errors.As(err, &te) || errors.Is(err, resilience.ErrTimeout)
}

// do executes one request through the resilience stack and decodes the JSON
// response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fault.Internal("encode request body", err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	start := time.Now()
	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		return c.attempt(ctx, method, target, payload, out)
	})
	c.logger.Debug(ctx, "downstream request",
		observe.F("service", c.name),
		observe.F("method", method),
		observe.F("path", path),
		observe.F("duration_ms", time.Since(start).Milliseconds()),
		observe.F("error", errString(err)),
	)
	if err != nil {
		return c.classify(err)
	}
	return nil
}

// attempt performs a single HTTP exchange.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fault.Internal("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(token, "Bearer "))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return resilience.ErrTimeout
		}
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body apiError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
		return &statusError{status: resp.StatusCode, body: body}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fault.Service("malformed response from "+c.name, err)
		}
	} else {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	}
	return nil
}

// classify converts resilience and transport outcomes into the gateway's
// error taxonomy.
func (c *Client) classify(err error) error {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fault.CircuitOpen(c.name)
	case errors.Is(err, resilience.ErrTimeout):
		return fault.Timeout("request to "+c.name+" timed out", err)
	case errors.Is(err, resilience.ErrBulkheadFull):
		return fault.Service("too many concurrent requests to "+c.name, err)
	case errors.Is(err, context.Canceled):
		return fault.Timeout("request to "+c.name+" canceled", err)
	}

	var te *transportError
	if errors.As(err, &te) {
		return fault.Service(c.name+" is unreachable", te.err)
	}

	var se *statusError
	if errors.As(err, &se) {
		return c.classifyStatus(se)
	}

	return fault.From(err)
}

func (c *Client) classifyStatus(se *statusError) error {
	msg := se.body.Message
	switch {
	case se.status == http.StatusUnauthorized:
		if msg == "" {
			msg = "downstream rejected credentials"
		}
		return fault.Authentication(msg)
	case se.status == http.StatusForbidden:
		if msg == "" {
			msg = "downstream denied access"
		}
		return fault.PermissionDenied(msg)
	case se.status == http.StatusNotFound:
		if msg == "" {
			msg = "resource not found"
		}
		return fault.NotFound(msg)
	case se.status == http.StatusConflict || se.status == http.StatusUnprocessableEntity:
		code := fault.Code(se.body.Code)
		if code == "" {
			code = fault.CodeBusinessRule
		}
		if msg == "" {
			msg = "downstream rejected the operation"
		}
		return fault.New(code, msg).WithDetails(se.body.Details)
	case se.status >= 400 && se.status < 500:
		if msg == "" {
			msg = fmt.Sprintf("downstream rejected the request (status %d)", se.status)
		}
		e := fault.New(fault.CodeValidation, msg)
		e.Details = se.body.Details
		return e
	default:
		if msg == "" {
			msg = fmt.Sprintf("%s returned status %d", c.name, se.status)
		}
		e := fault.Service(msg, se)
		return e.WithDetails(map[string]any{"status": se.status, "service": c.name})
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
