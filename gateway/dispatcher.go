package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/fingate/auth"
	"github.com/jonwraymond/fingate/fault"
	"github.com/jonwraymond/fingate/observe"
)

// DispatcherConfig configures the authorization pipeline.
type DispatcherConfig struct {
	// Auth validates tokens and resolves identities. Required.
	Auth *auth.Handler

	// Authorizer answers permission and ownership queries. Required.
	Authorizer *auth.Authorizer

	// Logger receives pipeline events.
	// Default: observe.NopLogger()
	Logger observe.Logger

	// Metrics receives invocation and auth-failure counts.
	// Default: observe.NopMetrics()
	Metrics observe.Metrics
}

// Dispatcher runs tool invocations through the four authorization gates and
// into the operation handler. It holds no per-request state.
type Dispatcher struct {
	auth    *auth.Handler
	authz   *auth.Authorizer
	logger  observe.Logger
	metrics observe.Metrics
	env     envelopeFactory
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(config DispatcherConfig) (*Dispatcher, error) {
	if config.Auth == nil {
		return nil, errors.New("auth handler is required")
	}
	if config.Authorizer == nil {
		return nil, errors.New("authorizer is required")
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics()
	}
	return &Dispatcher{
		auth:    config.Auth,
		authz:   config.Authorizer,
		logger:  config.Logger.WithComponent("gateway"),
		metrics: config.Metrics,
		env:     newEnvelopeFactory(),
	}, nil
}

// ExtractToken is the first gate: the bearer token must be present.
func (d *Dispatcher) ExtractToken(args Args) (string, error) {
	token := args.String(TokenParam)
	if token == "" {
		return "", fault.Authentication("authentication token is required")
	}
	return token, nil
}

// Authenticate is the second gate: the token must resolve to an identity.
func (d *Dispatcher) Authenticate(token string) (auth.UserContext, error) {
	user, err := d.auth.ExtractUserContext(token)
	if err != nil {
		fe := fault.From(err)
		return auth.UserContext{}, fault.Authentication("authentication failed: " + fe.Message)
	}
	return user, nil
}

// CheckPermission is the third gate: the identity must hold the operation's
// required permission.
func (d *Dispatcher) CheckPermission(user auth.UserContext, op Operation) error {
	if op.Permission == "" {
		return nil
	}
	if !d.authz.HasPermission(user, op.Permission) {
		return fault.PermissionDenied(fmt.Sprintf("insufficient permissions: %s required", op.Permission))
	}
	return nil
}

// CheckOwnership is the fourth gate: the declared ownership parameter must
// pass the operation's ownership check. An empty parameter value is skipped;
// handlers default it to the caller.
func (d *Dispatcher) CheckOwnership(user auth.UserContext, op Operation, args Args) error {
	if op.OwnershipParam == "" {
		return nil
	}
	ownerID := args.String(op.OwnershipParam)
	if ownerID == "" {
		return nil
	}

	allowed := true
	switch op.Access {
	case AccessAccount:
		allowed = d.authz.CanAccessAccount(user, ownerID)
	case AccessTransaction:
		allowed = d.authz.CanPerformTransaction(user, ownerID, args.String("transaction_type"))
	case AccessAnalytics:
		allowed = d.authz.CanAccessAnalytics(user, ownerID)
	}
	if !allowed {
		return fault.PermissionDenied("access denied")
	}
	return nil
}

// Dispatch runs one invocation through the pipeline and returns the uniform
// envelope. It never returns a raw error: every failure is classified and
// rendered, and panics in handlers are contained.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation, args Args) any {
	start := time.Now()

	result, err := d.invoke(ctx, op, args)
	if err != nil {
		fe := fault.From(err)
		d.metrics.RecordInvocation(ctx, op.Name, string(fe.Code), time.Since(start))
		d.logger.Warn(ctx, "invocation failed",
			observe.F("tool", op.Name),
			observe.F("code", string(fe.Code)),
			observe.F("error", fe.Message),
		)
		return d.env.failure(fe)
	}

	d.metrics.RecordInvocation(ctx, op.Name, "ok", time.Since(start))
	d.logger.Debug(ctx, "invocation completed",
		observe.F("tool", op.Name),
		observe.F("duration_ms", time.Since(start).Milliseconds()),
	)
	return d.env.success(result.Message, result.Data)
}

func (d *Dispatcher) invoke(ctx context.Context, op Operation, args Args) (result *Result, err error) {
	// Handlers and gates must never leak a panic across the tool boundary.
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error(ctx, "panic during invocation",
				observe.F("tool", op.Name),
				observe.F("panic", fmt.Sprint(r)),
			)
			result = nil
			err = fault.Internal("internal server error during authentication", fmt.Errorf("panic: %v", r))
		}
	}()

	token, err := d.ExtractToken(args)
	if err != nil {
		d.metrics.RecordAuthFailure(ctx, op.Name, "missing_token")
		return nil, err
	}

	user, err := d.Authenticate(token)
	if err != nil {
		d.metrics.RecordAuthFailure(ctx, op.Name, "invalid_token")
		return nil, err
	}

	if err := d.CheckPermission(user, op); err != nil {
		d.metrics.RecordAuthFailure(ctx, op.Name, "permission")
		return nil, err
	}

	if err := d.CheckOwnership(user, op, args); err != nil {
		d.metrics.RecordAuthFailure(ctx, op.Name, "ownership")
		return nil, err
	}

	ctx = auth.WithUserContext(ctx, user)
	ctx = auth.WithBearerToken(ctx, strings.TrimPrefix(token, "Bearer "))

	result, err = op.Handler(ctx, user, args)
	if err != nil {
		var fe *fault.Error
		if !errors.As(err, &fe) {
			d.logger.Error(ctx, "unclassified handler error",
				observe.F("tool", op.Name),
				observe.F("error", err.Error()),
			)
			return nil, fault.Internal("internal server error during authentication", err)
		}
		return nil, fe
	}
	if result == nil {
		result = &Result{Message: "ok"}
	}
	return result, nil
}
