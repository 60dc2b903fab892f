package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies a failed call
type Kind int

const (
	// KindTransport covers network, DNS and transport timeouts
	KindTransport Kind = iota + 1
	// KindProtocol is a non-2xx response
	KindProtocol
	// KindDecode is a 2xx response whose body is not the expected JSON
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

var (
	ErrTransport = errors.New("transport failure")
	ErrProtocol  = errors.New("protocol failure")
	ErrDecode    = errors.New("decode failure")
)

const maxMessageLen = 256

// Error is the typed failure returned by every Client call
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindProtocol:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %s failure: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the Kind sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrProtocol:
		return e.Kind == KindProtocol
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// StatusCode returns the HTTP status of a protocol failure, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// errorMessage reads the server-provided reason from a failure body: the
// "error", "msg" or "message" JSON field, else the plain text.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"error", "msg", "message"} {
			if v := gjson.GetBytes(body, field); v.Exists() && v.String() != "" {
				return truncate(v.String())
			}
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	if len(s) > maxMessageLen {
		return s[:maxMessageLen] + "...(truncated)"
	}
	return s
}
