package integration

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors classifying integration call failures.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrTransport indicates the connection could not be established or was
	// dropped (connection refused, DNS failure, TLS failure).
	ErrTransport = errors.New("transport error")

	// ErrTimeout indicates no response arrived within the configured budget.
	// The in-flight call is abandoned, never retried.
	ErrTimeout = errors.New("request timed out")

	// ErrRemote indicates the remote service returned a non-2xx status.
	ErrRemote = errors.New("remote error")

	// ErrDecode indicates a success status whose body could not be decoded
	// into the expected type.
	ErrDecode = errors.New("decode error")
)

// CallError wraps an underlying error with integration call classification.
// It preserves the original error in the chain for inspection via errors.As.
type CallError struct {
	// Kind is the sentinel error for classification (e.g., ErrTimeout).
	Kind error
	// Op is the operation that failed ("get", "post").
	Op string
	// Path is the request path relative to the adapter base URL.
	Path string
	// Status is the HTTP status code for ErrRemote, zero otherwise.
	Status int
	// Body holds a truncated copy of the error response body, if any.
	Body string
	// Err is the underlying error, nil for pure status failures.
	Err error
}

func (e *CallError) Error() string {
	switch {
	case e.Kind == ErrRemote && e.Body != "":
		return fmt.Sprintf("%s %s: %v: status %d: %s", e.Op, e.Path, e.Kind, e.Status, e.Body)
	case e.Kind == ErrRemote:
		return fmt.Sprintf("%s %s: %v: status %d", e.Op, e.Path, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *CallError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *CallError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// RemoteStatus extracts the HTTP status code from an ErrRemote failure.
// The second return is false for every other failure kind.
func RemoteStatus(err error) (int, bool) {
	var callErr *CallError
	if errors.As(err, &callErr) && errors.Is(callErr.Kind, ErrRemote) {
		return callErr.Status, true
	}
	return 0, false
}

// FailureKind names the failure classification of an integration error:
// "transport", "timeout", "remote", or "decode". Returns "" for nil and
// "unknown" for errors outside the taxonomy. Intended for accounting
// surfaces that want string keys rather than sentinel comparisons.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrRemote):
		return "remote"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "unknown"
	}
}

// classifyRequestError maps an http.Client request failure to a sentinel.
// Deadline expiry (from the per-call budget or the caller's context) counts
// as a timeout; everything else is a transport failure.
func classifyRequestError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrTransport
}
