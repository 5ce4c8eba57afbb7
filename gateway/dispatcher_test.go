package gateway

import (
	"context"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/fingate/auth"
	"github.com/jonwraymond/fingate/fault"
)

func newTestAuth(t *testing.T) *auth.Handler {
	t.Helper()
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		t.Fatalf("rand.Read() error = %v", err)
	}
	h, err := auth.NewHandler(auth.HandlerConfig{Secret: secret})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *auth.Handler) {
	t.Helper()
	authHandler := newTestAuth(t)
	d, err := NewDispatcher(DispatcherConfig{
		Auth:       authHandler,
		Authorizer: auth.NewAuthorizer(auth.AuthorizerConfig{}),
	})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d, authHandler
}

func tokenFor(t *testing.T, h *auth.Handler, userID string, roles []string) string {
	t.Helper()
	token, err := h.CreateToken(userID, userID, roles, nil, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}
	return token
}

func echoOp(name string) Operation {
	return Operation{
		Name:       name,
		Permission: auth.PermAccountRead,
		Handler: func(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
			return &Result{Message: "done", Data: map[string]any{"user": user.UserID}}, nil
		},
	}
}

func asError(t *testing.T, envelope any) ErrorEnvelope {
	t.Helper()
	e, ok := envelope.(ErrorEnvelope)
	if !ok {
		t.Fatalf("envelope = %T, want ErrorEnvelope", envelope)
	}
	return e
}

func asSuccess(t *testing.T, envelope any) SuccessEnvelope {
	t.Helper()
	e, ok := envelope.(SuccessEnvelope)
	if !ok {
		t.Fatalf("envelope = %T, want SuccessEnvelope", envelope)
	}
	return e
}

func TestDispatchMissingToken(t *testing.T) {
	d, _ := newTestDispatcher(t)

	e := asError(t, d.Dispatch(context.Background(), echoOp("account_get"), Args{}))
	if e.ErrorCode != string(fault.CodeAuthentication) {
		t.Errorf("ErrorCode = %q, want AUTHENTICATION_ERROR", e.ErrorCode)
	}
	if e.ErrorMessage != "authentication token is required" {
		t.Errorf("ErrorMessage = %q, want token-required message", e.ErrorMessage)
	}
	if e.RequestID == "" || e.Timestamp == "" {
		t.Error("error envelope missing request_id or timestamp")
	}
}

func TestDispatchInvalidToken(t *testing.T) {
	d, _ := newTestDispatcher(t)

	e := asError(t, d.Dispatch(context.Background(), echoOp("account_get"), Args{TokenParam: "garbage"}))
	if e.ErrorCode != string(fault.CodeAuthentication) {
		t.Errorf("ErrorCode = %q, want AUTHENTICATION_ERROR", e.ErrorCode)
	}
	if e.ErrorMessage != "authentication failed: Invalid token" {
		t.Errorf("ErrorMessage = %q, want prefixed validation message", e.ErrorMessage)
	}
}

func TestDispatchInsufficientPermission(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	op := Operation{
		Name:       "account_create",
		Permission: auth.PermAccountCreate,
		Handler: func(context.Context, auth.UserContext, Args) (*Result, error) {
			t.Error("handler ran despite missing permission")
			return nil, nil
		},
	}

	e := asError(t, d.Dispatch(context.Background(), op, Args{TokenParam: token}))
	if e.ErrorCode != string(fault.CodePermissionDenied) {
		t.Errorf("ErrorCode = %q, want PERMISSION_DENIED", e.ErrorCode)
	}
	if e.ErrorMessage != "insufficient permissions: account:create required" {
		t.Errorf("ErrorMessage = %q, want permission message", e.ErrorMessage)
	}
}

func TestDispatchOwnershipDenied(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	op := Operation{
		Name:           "account_list",
		Permission:     auth.PermAccountRead,
		OwnershipParam: "owner_id",
		Access:         AccessAccount,
		Handler: func(context.Context, auth.UserContext, Args) (*Result, error) {
			t.Error("handler ran despite ownership denial")
			return nil, nil
		},
	}

	e := asError(t, d.Dispatch(context.Background(), op, Args{TokenParam: token, "owner_id": "other"}))
	if e.ErrorCode != string(fault.CodePermissionDenied) {
		t.Errorf("ErrorCode = %q, want PERMISSION_DENIED", e.ErrorCode)
	}
	if e.ErrorMessage != "access denied" {
		t.Errorf("ErrorMessage = %q, want %q", e.ErrorMessage, "access denied")
	}
}

func TestDispatchOwnershipSelfAllowed(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	op := Operation{
		Name:           "account_list",
		Permission:     auth.PermAccountRead,
		OwnershipParam: "owner_id",
		Access:         AccessAccount,
		Handler: func(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
			return &Result{Message: "listed"}, nil
		},
	}

	s := asSuccess(t, d.Dispatch(context.Background(), op, Args{TokenParam: token, "owner_id": "cust1"}))
	if !s.Success || s.Message != "listed" {
		t.Errorf("envelope = %+v, want success with message listed", s)
	}
}

func TestDispatchInjectsUserContext(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	var gotUser auth.UserContext
	var gotToken string
	op := Operation{
		Name:       "account_get",
		Permission: auth.PermAccountRead,
		Handler: func(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
			gotUser = user
			gotToken = auth.BearerTokenFrom(ctx)
			ctxUser, ok := auth.UserContextFrom(ctx)
			if !ok || ctxUser.UserID != user.UserID {
				t.Error("user context not attached to ctx")
			}
			return &Result{Message: "ok"}, nil
		},
	}

	asSuccess(t, d.Dispatch(context.Background(), op, Args{TokenParam: token}))
	if gotUser.UserID != "cust1" {
		t.Errorf("handler user = %q, want cust1", gotUser.UserID)
	}
	if gotToken != token {
		t.Error("bearer token not forwarded for downstream calls")
	}
}

func TestDispatchHandlerFaultPassesThrough(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	op := Operation{
		Name:       "funds_withdraw",
		Permission: auth.PermAccountRead,
		Handler: func(context.Context, auth.UserContext, Args) (*Result, error) {
			return nil, fault.InsufficientFunds(100, 50)
		},
	}

	e := asError(t, d.Dispatch(context.Background(), op, Args{TokenParam: token}))
	if e.ErrorCode != string(fault.CodeInsufficientFunds) {
		t.Errorf("ErrorCode = %q, want INSUFFICIENT_FUNDS", e.ErrorCode)
	}
	if e.Details["requested_amount"] != 100.0 {
		t.Errorf("Details = %v, want requested_amount 100", e.Details)
	}
}

func TestDispatchUntypedErrorReportedGenerically(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	op := Operation{
		Name:       "account_get",
		Permission: auth.PermAccountRead,
		Handler: func(context.Context, auth.UserContext, Args) (*Result, error) {
			return nil, errors.New("pq: connection refused on 10.0.0.7")
		},
	}

	e := asError(t, d.Dispatch(context.Background(), op, Args{TokenParam: token}))
	if e.ErrorCode != string(fault.CodeInternal) {
		t.Fatalf("ErrorCode = %q, want INTERNAL_ERROR", e.ErrorCode)
	}
	if e.ErrorMessage != "internal server error during authentication" {
		t.Errorf("ErrorMessage = %q, want generic message", e.ErrorMessage)
	}
}

func TestDispatchContainsPanics(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	op := Operation{
		Name:       "account_get",
		Permission: auth.PermAccountRead,
		Handler: func(context.Context, auth.UserContext, Args) (*Result, error) {
			panic("nil map write")
		},
	}

	e := asError(t, d.Dispatch(context.Background(), op, Args{TokenParam: token}))
	if e.ErrorCode != string(fault.CodeInternal) {
		t.Errorf("ErrorCode = %q, want INTERNAL_ERROR", e.ErrorCode)
	}
	if e.ErrorMessage != "internal server error during authentication" {
		t.Errorf("ErrorMessage = %q, want generic message", e.ErrorMessage)
	}
}

func TestDispatchAcceptsBearerPrefixedToken(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	s := asSuccess(t, d.Dispatch(context.Background(), echoOp("account_get"), Args{TokenParam: "Bearer " + token}))
	if !s.Success {
		t.Error("Success = false, want true")
	}
}

func TestSuccessEnvelopeShape(t *testing.T) {
	d, authHandler := newTestDispatcher(t)
	token := tokenFor(t, authHandler, "cust1", []string{auth.RoleCustomer})

	s := asSuccess(t, d.Dispatch(context.Background(), echoOp("account_get"), Args{TokenParam: token}))
	if s.RequestID == "" {
		t.Error("RequestID is empty")
	}
	if _, err := time.Parse(time.RFC3339, s.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", s.Timestamp, err)
	}
	data, ok := s.Data.(map[string]any)
	if !ok || data["user"] != "cust1" {
		t.Errorf("Data = %v, want map with user cust1", s.Data)
	}
}
