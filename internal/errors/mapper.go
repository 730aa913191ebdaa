package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorMapper maps raw backend/transport errors onto the closed
// taxonomy in errors.go.
type ErrorMapper interface {
	MapError(err error) error
	IsRetryable(err error) bool
	Category(err error) string
}

type DefaultErrorMapper struct{}

func NewDefaultErrorMapper() *DefaultErrorMapper {
	return &DefaultErrorMapper{}
}

func (m *DefaultErrorMapper) MapError(err error) error {
	return MapError(err)
}

// MapError classifies a raw error by message content when the caller
// didn't already construct one of the sentinel errors directly. Backend
// adapters should prefer constructing sentinels directly; this exists
// for errors surfaced by third-party SDKs in free text.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	for _, sentinel := range allSentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "quota"), strings.Contains(lower, "too many requests"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case strings.Contains(lower, "refused"), strings.Contains(lower, "content policy"), strings.Contains(lower, "safety"):
		return fmt.Errorf("%w: %v", ErrRefused, err)
	case strings.Contains(lower, "invalid json"), strings.Contains(lower, "malformed"), strings.Contains(lower, "schema"):
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	case strings.Contains(lower, "network"), strings.Contains(lower, "connection"), strings.Contains(lower, "unreachable"), strings.Contains(lower, "eof"):
		return fmt.Errorf("%w: %v", ErrTransport, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
}

var allSentinels = []error{
	ErrTransport, ErrRateLimited, ErrTimeout, ErrInvalidOutput, ErrRefused,
	ErrBlocked, ErrThrottled, ErrCancelled, ErrLoggingFailed, ErrConfigInvalid,
	ErrDictionaryInvalid,
}

func (m *DefaultErrorMapper) IsRetryable(err error) bool {
	return IsRetryable(err)
}

// IsRetryable reports whether a mapped error belongs to a category the
// router's bounded retry loop should attempt again. RateLimited,
// Timeout, and Transport are retryable; everything else (including
// Refused, Blocked, Cancelled) is terminal for that attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCancelled) {
		return false
	}
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

func (m *DefaultErrorMapper) Category(err error) string {
	return Category(err)
}

func Category(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrTransport):
		return "Transport"
	case errors.Is(err, ErrRateLimited):
		return "RateLimited"
	case errors.Is(err, ErrTimeout):
		return "Timeout"
	case errors.Is(err, ErrInvalidOutput):
		return "InvalidOutput"
	case errors.Is(err, ErrRefused):
		return "Refused"
	case errors.Is(err, ErrBlocked):
		return "Blocked"
	case errors.Is(err, ErrThrottled):
		return "Throttled"
	case errors.Is(err, ErrCancelled):
		return "Cancelled"
	case errors.Is(err, ErrLoggingFailed):
		return "LoggingFailed"
	case errors.Is(err, ErrConfigInvalid):
		return "ConfigInvalid"
	case errors.Is(err, ErrDictionaryInvalid):
		return "DictionaryInvalid"
	default:
		return "Unknown"
	}
}

// Wrap attaches context to an error without changing its category.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func Transport(message string) error     { return fmt.Errorf("%s: %w", message, ErrTransport) }
func RateLimited(message string) error   { return fmt.Errorf("%s: %w", message, ErrRateLimited) }
func Timeout(message string) error       { return fmt.Errorf("%s: %w", message, ErrTimeout) }
func InvalidOutput(message string) error { return fmt.Errorf("%s: %w", message, ErrInvalidOutput) }
func Refused(message string) error       { return fmt.Errorf("%s: %w", message, ErrRefused) }
func Blocked(message string) error       { return fmt.Errorf("%s: %w", message, ErrBlocked) }
func Throttled(message string) error     { return fmt.Errorf("%s: %w", message, ErrThrottled) }
func LoggingFailed(message string) error { return fmt.Errorf("%s: %w", message, ErrLoggingFailed) }
func ConfigInvalid(message string) error { return fmt.Errorf("%s: %w", message, ErrConfigInvalid) }
func DictionaryInvalid(message string) error {
	return fmt.Errorf("%s: %w", message, ErrDictionaryInvalid)
}
