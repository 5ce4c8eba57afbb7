package fault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Is_MatchesByCode(t *testing.T) {
	err := Authentication("Invalid token")

	if !errors.Is(err, New(CodeAuthentication, "")) {
		t.Error("errors.Is should match fault errors by code")
	}
	if errors.Is(err, New(CodePermissionDenied, "")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Service("account service unavailable", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}

func TestFrom(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"already classified", PermissionDenied("nope"), CodePermissionDenied},
		{"wrapped classified", fmt.Errorf("dispatch: %w", Timeout("deadline", nil)), CodeTimeout},
		{"unclassified fails closed", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if tt.want == "" {
				if got != nil {
					t.Errorf("From(nil) = %v, want nil", got)
				}
				return
			}
			if got.Code != tt.want {
				t.Errorf("From() code = %v, want %v", got.Code, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Timeout("deadline exceeded", nil)) {
		t.Error("timeouts should be retryable")
	}
	for _, err := range []*Error{
		Authentication("bad token"),
		PermissionDenied("nope"),
		Validation("amount", "must be positive"),
		Service("downstream 503", nil),
		CircuitOpen("account-service"),
		InsufficientFunds(100, 50),
	} {
		if Retryable(err) {
			t.Errorf("%s should not be retryable", err.Code)
		}
	}
}

func TestInsufficientFunds_Details(t *testing.T) {
	err := InsufficientFunds(150.0, 99.5)

	if err.Code != CodeInsufficientFunds {
		t.Errorf("Code = %v, want %v", err.Code, CodeInsufficientFunds)
	}
	if err.Details["requested_amount"] != 150.0 {
		t.Errorf("requested_amount = %v, want 150.0", err.Details["requested_amount"])
	}
	if err.Details["available_amount"] != 99.5 {
		t.Errorf("available_amount = %v, want 99.5", err.Details["available_amount"])
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeAuthentication, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeValidation, http.StatusBadRequest},
		{CodeInsufficientFunds, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeService, http.StatusBadGateway},
		{CodeCircuitOpen, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(tt.code); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestInternal_DoesNotLeakCauseInMessage(t *testing.T) {
	err := Internal("internal server error during authentication", errors.New("pg: connection reset"))

	if err.Message != "internal server error during authentication" {
		t.Errorf("Message = %q, should stay generic", err.Message)
	}
}
