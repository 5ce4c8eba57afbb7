package gateway

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/fingate/fault"
)

// SuccessEnvelope is the uniform success response.
type SuccessEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorEnvelope is the uniform error response. Details never carry internal
// stack information.
type ErrorEnvelope struct {
	ErrorCode    string         `json:"error_code"`
	ErrorMessage string         `json:"error_message"`
	Details      map[string]any `json:"details"`
	RequestID    string         `json:"request_id"`
	Timestamp    string         `json:"timestamp"`
}

// envelopeFactory stamps envelopes with request IDs and timestamps. The
// clock and ID source are injectable for tests.
type envelopeFactory struct {
	now   func() time.Time
	newID func() string
}

func newEnvelopeFactory() envelopeFactory {
	return envelopeFactory{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (f envelopeFactory) timestamp() string {
	return f.now().UTC().Format(time.RFC3339)
}

func (f envelopeFactory) success(message string, data any) SuccessEnvelope {
	return SuccessEnvelope{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: f.newID(),
		Timestamp: f.timestamp(),
	}
}

// failure classifies err and renders it. Unclassified errors fail closed to
// INTERNAL_ERROR; the cause stays out of the envelope.
func (f envelopeFactory) failure(err error) ErrorEnvelope {
	fe := fault.From(err)
	return ErrorEnvelope{
		ErrorCode:    string(fe.Code),
		ErrorMessage: fe.Message,
		Details:      fe.Details,
		RequestID:    f.newID(),
		Timestamp:    f.timestamp(),
	}
}
