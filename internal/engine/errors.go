package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors, one per error code. errors.Is(err, ErrTimeout) holds for
// any EngineError with code TIMEOUT.
var (
	ErrNotFound     = errors.New("not found")
	ErrTimeout      = errors.New("page load timeout")
	ErrInvalidInput = errors.New("invalid input")
	ErrBrowserCrash = errors.New("browser crashed")
	ErrNetworkError = errors.New("network error")
	ErrParseError   = errors.New("failed to parse page")

	ErrEmptyPage = errors.New("page has no content")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeBrowserCrash ErrorCode = "BROWSER_CRASH"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeNotFound:     ErrNotFound,
	ErrCodeTimeout:      ErrTimeout,
	ErrCodeValidation:   ErrInvalidInput,
	ErrCodeBrowserCrash: ErrBrowserCrash,
	ErrCodeNetworkError: ErrNetworkError,
	ErrCodeParseError:   ErrParseError,
}

// EngineError is a classified page-load failure
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Details    map[string]any
}

func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches an EngineError with the same code, the code's sentinel, or
// anything the underlying error matches
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	if s, ok := codeSentinels[e.Code]; ok && s == target {
		return true
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Details:    make(map[string]any),
	}
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value any) *EngineError {
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first EngineError in err's chain, or ""
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// LoadError classifies a failed load of url. An EngineError already in the
// chain is returned as is; deadline and timeout errors become TIMEOUT;
// everything else gets fallback.
func LoadError(fallback ErrorCode, url string, err error) *EngineError {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee
	}

	code := fallback
	msg := "failed to load page"
	if isTimeout(err) {
		code = ErrCodeTimeout
		msg = "page load timed out"
	}
	return NewEngineError(code, msg, err).WithDetail("url", url)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
