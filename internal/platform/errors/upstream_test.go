package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net"
	"testing"
)

func status(code int, body string) *StatusError {
	return &StatusError{Status: code, Method: "GET", URL: "http://care/api", Body: body}
}

func TestUpstreamErrorCodeMappings(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCode
	}{
		{400, ErrorCodeValidation},
		{422, ErrorCodeValidation},
		{401, ErrorCodeUnauthorized},
		{403, ErrorCodeForbidden},
		{404, ErrorCodeNotFound},
		{409, ErrorCodeConflict},
		{429, ErrorCodeTooManyRequests},
		{502, ErrorCodeUnavailable},
		{503, ErrorCodeUnavailable},
		{504, ErrorCodeUnavailable},
		{500, ErrorCodeUpstream},
		{418, ErrorCodeUpstream},
	}
	for _, c := range cases {
		got, ok := UpstreamErrorCode(c.status)
		if !ok {
			t.Fatalf("expected ok for status %d", c.status)
		}
		if got != c.want {
			t.Fatalf("UpstreamErrorCode(%d) = %v, want %v", c.status, got, c.want)
		}
	}
	if _, ok := UpstreamErrorCode(200); ok {
		t.Fatalf("UpstreamErrorCode should return ok=false for success")
	}
}

func TestFromUpstreamVariants(t *testing.T) {
	if FromUpstream(nil, "x") != nil {
		t.Fatalf("FromUpstream(nil) should be nil")
	}

	err := FromUpstream(fmt.Errorf("call: %w", status(404, "")), "list comments")
	if CodeOf(err) != ErrorCodeNotFound {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if !IsStatus(err, 404) {
		t.Fatalf("IsStatus should see through wrapping")
	}

	err = FromUpstreamf(&net.OpError{Op: "dial", Err: stderrs.New("refused")}, "list %s", "users")
	if CodeOf(err) != ErrorCodeUnavailable {
		t.Fatalf("network error code = %v", CodeOf(err))
	}
	if CodeOf(FromUpstream(stderrs.New("weird"), "x")) != ErrorCodeUpstream {
		t.Fatalf("foreign error should map to upstream")
	}
}

func TestAttachFieldFromUpstream(t *testing.T) {
	err := FromUpstream(status(400, `{"phone_number": ["Enter a valid phone number."]}`), "create user")
	if e, _ := As(AttachFieldFromUpstream(err)); e.Field() != "phone_number" {
		t.Fatalf("field = %q", e.Field())
	}
	plain := FromUpstream(status(400, `{"detail": "nope"}`), "x")
	if e, _ := As(AttachFieldFromUpstream(plain)); e.Field() != "" {
		t.Fatalf("detail should not become a field")
	}
	other := FromUpstream(status(404, `{"phone_number": []}`), "x")
	if e, _ := As(AttachFieldFromUpstream(other)); e.Field() != "" {
		t.Fatalf("only 400 bodies carry fields")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), false},
		{"503", status(503, ""), true},
		{"429", status(429, ""), true},
		{"400", status(400, ""), false},
		{"500", status(500, ""), false},
		{"net", &net.OpError{Op: "read", Err: stderrs.New("x")}, true},
		{"reset text", stderrs.New("read tcp: connection reset by peer"), true},
		{"other", stderrs.New("boom"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("%s: IsRetryable = %v, want %v", c.name, got, c.want)
		}
	}
}
