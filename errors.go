package pagerduty

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	Unknown ErrorKind = iota
	MissingRequiredField
	InvalidFieldFormat
	TransportFailure
)

func (k ErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "missing required field"
	case InvalidFieldFormat:
		return "invalid field format"
	case TransportFailure:
		return "transport failure"
	default:
		return "unknown"
	}
}

type ConfigError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError reports a failed delivery. StatusCode is zero when no
// response was received at all.
type TransportError struct {
	StatusCode int
	Message    string
	Errors     []string
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("pagerduty: delivery failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Errors) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Errors, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind carried anywhere in err's chain.
func KindOf(err error) ErrorKind {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var te *TransportError
	if errors.As(err, &te) {
		return TransportFailure
	}
	return Unknown
}

var errNoCallback = errors.New("no callback configured")
