// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyOwnerID ctxKey = "owner_id"

// WithRequest annotates context with common request scoped ids
// ownerID is the resource or organization whose list the request reads or mutates
func WithRequest(ctx context.Context, reqID, ownerID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if ownerID != "" {
		ctx = context.WithValue(ctx, keyOwnerID, ownerID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// OwnerID returns the list owner id on the context if present
func OwnerID(ctx context.Context) string {
	if v, ok := ctx.Value(keyOwnerID).(string); ok {
		return v
	}
	return ""
}
