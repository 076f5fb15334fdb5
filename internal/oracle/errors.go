// Package oracle asks a chat-completion service to match source headers to
// canonical headers, and turns its JSON reply into a matcher.Mapping.
package oracle

import "fmt"

// ErrorType represents the kind of oracle failure.
type ErrorType string

const (
	MissingCredentials ErrorType = "MISSING_CREDENTIALS"
	Transport          ErrorType = "TRANSPORT"
	InvalidResponse    ErrorType = "INVALID_RESPONSE"
	IndexOutOfRange    ErrorType = "INDEX_OUT_OF_RANGE"
	Misconfigured      ErrorType = "MISCONFIGURED"
)

// OracleError is returned for every oracle failure. It never carries cell data.
type OracleError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *OracleError) Error() string {
	var msg string
	switch e.Type {
	case MissingCredentials:
		msg = "oracle credentials missing"
	case Transport:
		msg = "oracle request failed"
	case InvalidResponse:
		msg = "oracle response invalid"
	case IndexOutOfRange:
		msg = "oracle response index out of range"
	case Misconfigured:
		msg = "oracle misconfigured"
	default:
		msg = "oracle error"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, err error, format string, args ...interface{}) *OracleError {
	return &OracleError{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
