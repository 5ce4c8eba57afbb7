package gateway

import (
	"github.com/jonwraymond/fingate/fault"
)

// Args holds the decoded arguments of one tool invocation.
type Args map[string]any

// String returns the named argument as a string, or "" when absent or not a
// string.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// RequiredString returns the named argument, failing with a validation error
// when it is absent or empty.
func (a Args) RequiredString(name string) (string, error) {
	v := a.String(name)
	if v == "" {
		return "", fault.Validation(name, name+" is required")
	}
	return v, nil
}

// Float returns the named argument as a float64. JSON numbers decode to
// float64; integer values are widened.
func (a Args) Float(name string) (float64, error) {
	switch v := a[name].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case nil:
		return 0, fault.Validation(name, name+" is required")
	default:
		return 0, fault.Validation(name, name+" must be a number")
	}
}

// Int returns the named argument as an int, or def when absent.
func (a Args) Int(name string, def int) int {
	switch v := a[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
