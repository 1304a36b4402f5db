package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestEngineError_Is(t *testing.T) {
	err := NewEngineError(ErrCodeNetworkError, "failed", ErrNetworkError)

	if !errors.Is(err, &EngineError{Code: ErrCodeNetworkError}) {
		t.Error("Expected code match")
	}
	if errors.Is(err, &EngineError{Code: ErrCodeTimeout}) {
		t.Error("Expected no match for a different code")
	}
	if !errors.Is(err, ErrNetworkError) {
		t.Error("Expected underlying sentinel to match")
	}
}

func TestEngineError_CodeSentinel(t *testing.T) {
	err := fmt.Errorf("run: %w", NewEngineError(ErrCodeTimeout, "slow", context.DeadlineExceeded))

	if !errors.Is(err, ErrTimeout) {
		t.Error("Expected TIMEOUT to match ErrTimeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Expected underlying deadline to match")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Expected no match for another code's sentinel")
	}
}

func TestLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"wrapped deadline", fmt.Errorf("navigate: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"timeout sentinel", ErrTimeout, ErrCodeTimeout},
		{"other", errors.New("connection refused"), ErrCodeNetworkError},
		{"already classified", NewEngineError(ErrCodeBrowserCrash, "gone", nil), ErrCodeBrowserCrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LoadError(ErrCodeNetworkError, "https://example.com", tt.err)
			if err.Code != tt.want {
				t.Errorf("Expected code %s, got %s", tt.want, err.Code)
			}
			if got := CodeOf(fmt.Errorf("run: %w", err)); got != tt.want {
				t.Errorf("CodeOf: expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("Expected empty code, got %s", got)
	}
}
