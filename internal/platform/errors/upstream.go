package errors

// Upstream helpers for mapping HTTP API responses to project ErrorCode, extracting fields, and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// StatusError is the raw failure of an upstream HTTP call
// Body holds a bounded prefix of the response body
type StatusError struct {
	Status int
	Method string
	URL    string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, strings.TrimSpace(e.Body))
}

// ExtractStatusError returns (*StatusError, true) if the root cause is an upstream status error
func ExtractStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if stderrs.As(Root(err), &se) {
		return se, true
	}
	return nil, false
}

// IsStatus reports whether the error is an upstream response with the given status
func IsStatus(err error, status int) bool {
	se, ok := ExtractStatusError(err)
	return ok && se.Status == status
}

// UpstreamErrorCode maps an upstream HTTP status to an ErrorCode with an ok flag
// !ok means the status is a success and carries no error
func UpstreamErrorCode(status int) (ErrorCode, bool) {
	if status < 400 {
		return ErrorCodeUnknown, false
	}
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrorCodeValidation, true
	case http.StatusUnauthorized:
		return ErrorCodeUnauthorized, true
	case http.StatusForbidden:
		return ErrorCodeForbidden, true
	case http.StatusNotFound:
		return ErrorCodeNotFound, true
	case http.StatusConflict:
		return ErrorCodeConflict, true
	case http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests, true
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeUpstream, true
}

// FromUpstream wraps an upstream failure with a mapped ErrorCode and message
// Transport failures (no status) map to Unavailable. If err is nil, returns nil
func FromUpstream(err error, msg string) error {
	if err == nil {
		return nil
	}
	if se, ok := ExtractStatusError(err); ok {
		if code, ok := UpstreamErrorCode(se.Status); ok {
			return Wrap(err, code, msg)
		}
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	var ne net.Error
	if stderrs.As(err, &ne) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	return Wrap(err, ErrorCodeUpstream, msg)
}

// FromUpstreamf is the formatted variant of FromUpstream
func FromUpstreamf(err error, format string, a ...any) error {
	return FromUpstream(err, fmt.Sprintf(format, a...))
}

// AttachFieldFromUpstream enriches a validation error with the first field named
// in a DRF-style body such as {"phone_number": ["Enter a valid phone number."]}
// Returns the original error if no field can be inferred
func AttachFieldFromUpstream(err error) error {
	se, ok := ExtractStatusError(err)
	if !ok || se.Status != http.StatusBadRequest {
		return err
	}
	body := strings.TrimSpace(se.Body)
	if !strings.HasPrefix(body, "{\"") {
		return err
	}
	rest := body[2:]
	i := strings.IndexByte(rest, '"')
	if i <= 0 {
		return err
	}
	field := rest[:i]
	if field == "detail" || field == "non_field_errors" {
		return err
	}
	return WithField(err, field)
}

// IsRetryable reports whether an upstream error represents a transient condition
// worth retrying: gateway statuses, 429 and network failures
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Do not retry local cancellations/timeouts; let the caller decide higher-level retries
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	if se, ok := ExtractStatusError(err); ok {
		switch se.Status {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	var ne net.Error
	if stderrs.As(err, &ne) {
		return true
	}

	// Fallback: text emitted by net/http when a keep-alive connection is dropped
	s := strings.ToLower(Root(err).Error())
	switch {
	case strings.Contains(s, "connection reset by peer"),
		strings.Contains(s, "broken pipe"),
		strings.Contains(s, "unexpected eof"),
		strings.Contains(s, "server closed idle connection"):
		return true
	default:
		return false
	}
}
