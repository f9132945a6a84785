// Package errors is the project error type: a code for machines, a message
// for people, and optionally the offending field and the operation that failed
//
// Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error. The numeric values go over the wire, so
// new codes are only ever appended
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable // transient, a retry may succeed
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument // caller asked for something that does not exist
	ErrorCodeValidation      // user input rejected
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeUpstream // the care API answered with something unexpected
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeUpstream:        http.StatusBadGateway,
}

// HTTPStatusCode is the response status for c; unmapped codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the structured project error
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	orig  error
}

// Wire is what the API sends for an error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.msg
	default:
		return e.msg + ": " + e.orig.Error()
	}
}

func (e *Error) Unwrap() error { return e.orig }

// Code is the error's classification
func (e *Error) Code() ErrorCode { return e.code }

// Field is the input field the error is about, if any
func (e *Error) Field() string { return e.field }

// Op is the operation label set by WithOp
func (e *Error) Op() string { return e.op }

// ToWire drops the cause, which never leaves the process
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// As reports whether err wraps an *Error and returns it
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is err's code, or Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the response status for err
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WireFrom renders any error for the wire. nil renders as the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// with returns a copy of err's *Error changed by fn. Foreign errors pass through
func with(err error, fn func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	fn(&c)
	return &c
}

// WithField returns err tagged with the offending input field
func WithField(err error, field string) error {
	return with(err, func(e *Error) { e.field = field })
}

// WithOp returns err tagged with the operation that failed
func WithOp(err error, op string) error {
	return with(err, func(e *Error) { e.op = op })
}

// New is an *Error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a format
func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap is New with orig as the cause
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a format
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
