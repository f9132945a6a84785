// Package http is the transport layer under the modules: a chi backed
// router, a server, and the JSON envelope every endpoint answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "careview/internal/platform/errors"
	pnet "careview/internal/platform/net"
)

// Envelope wraps every JSON body the API writes
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(r *stdhttp.Request, status int) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
	}
}

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes err as an error envelope carrying detail as data
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error, detail any) {
	status, wire := perr.HTTPStatus(err), perr.WireFrom(err)
	env := envelope(r, status)
	env.Code, env.Error, env.Field, env.Data = wire.Code, wire.Message, wire.Field, detail
	JSON(w, status, env)
}

// Response is what return style handlers produce. A Body that is an error
// becomes an error envelope whose status comes from the error code
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
	// Detail is sent as data next to an error Body
	Detail any
}

// Handle adapts a return style handler to net/http
func Handle(h func(*stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err, resp.Detail)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	// redirects and 204 carry no body
	if status == stdhttp.StatusNoContent || (status >= 300 && status < 400) {
		w.WriteHeader(status)
		return
	}
	env := envelope(r, status)
	env.Data = resp.Body
	JSON(w, status, env)
}

// OK is a 200 with data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created is a 201 with data
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// CreatedAt is Created with a Location header
func CreatedAt(location string, data any) Response {
	resp := Created(data)
	resp.Header = stdhttp.Header{"Location": {location}}
	return resp
}

// SeeOther is a body-less 303 to location
func SeeOther(location string) Response {
	return Response{Status: stdhttp.StatusSeeOther, Header: stdhttp.Header{"Location": {location}}}
}

// NoContent is a 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error maps err to its status and an error envelope
func Error(err error) Response { return Response{Body: err} }

// ErrorWith is Error with detail echoed back as data
func ErrorWith(err error, detail any) Response { return Response{Body: err, Detail: detail} }
