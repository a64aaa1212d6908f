package rakuten

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds, matched with errors.Is. A failed token exchange may also wrap the decode failure behind it.
var (
	ErrAuthNotReady  = errors.New("rakuten: access token not set, authenticate first")
	ErrAuthFailed    = errors.New("rakuten: authentication failed")
	ErrRequestFailed = errors.New("rakuten: request failed")
	ErrDecodeFailed  = errors.New("rakuten: response decode failed")
	ErrValidation    = errors.New("rakuten: validation failed")
	ErrMappingFailed = errors.New("rakuten: mapping failed")
)

// AuthError reports a failed token exchange.
type AuthError struct {
	StatusCode int
	Payload    any
	Err        error
}

func (e *AuthError) Error() string {
	var b strings.Builder
	b.WriteString(ErrAuthFailed.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AuthError) Is(target error) bool { return target == ErrAuthFailed }
func (e *AuthError) Unwrap() error        { return e.Err }

// RequestError reports a non-2xx response on a data call. 4xx and 5xx are not distinguished.
type RequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
	// Payload holds the decoded body, or the raw text when it could not be decoded.
	Payload any
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s %s returned status %d: %s",
		ErrRequestFailed.Error(), e.Method, e.Endpoint, e.StatusCode, snippet(e.Payload))
}

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// DecodeError reports a body that could not be parsed in the declared format.
type DecodeError struct {
	Format Format
	Raw    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v: %s", ErrDecodeFailed.Error(), e.Format, e.Err, snippet(e.Raw))
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecodeFailed }
func (e *DecodeError) Unwrap() error        { return e.Err }

// ValidationError reports a caller-side precondition violated before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MappingError reports a payload that could not be projected onto a typed record.
type MappingError struct {
	Record string
	Field  string
	Err    error
}

func (e *MappingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s: %v", ErrMappingFailed.Error(), e.Record, e.Err)
	}
	return fmt.Sprintf("%s: %s.%s: %v", ErrMappingFailed.Error(), e.Record, e.Field, e.Err)
}

func (e *MappingError) Is(target error) bool { return target == ErrMappingFailed }
func (e *MappingError) Unwrap() error        { return e.Err }

func snippet(v any) string {
	const maxLen = 512
	var s string
	switch typed := v.(type) {
	case nil:
		return "<empty>"
	case string:
		s = typed
	case []byte:
		s = string(typed)
	default:
		s = fmt.Sprintf("%v", typed)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "<empty>"
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
