package mutation

import (
	"context"
	"sync"

	"careview/internal/platform/logger"
)

// Notifier presents the outcome of a mutation to the user
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// Level of a Note
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Note is one notification as sent to the client
type Note struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// LogNotifier writes notifications to the request logger
type LogNotifier struct{}

// Success implements Notifier
func (LogNotifier) Success(ctx context.Context, msg string) {
	logger.C(ctx).Info().Str("notify", string(LevelSuccess)).Msg(msg)
}

// Error implements Notifier
func (LogNotifier) Error(ctx context.Context, msg string) {
	logger.C(ctx).Warn().Str("notify", string(LevelError)).Msg(msg)
}

// Recorder collects notifications, e.g. for one HTTP response, and
// forwards them to Next when set
type Recorder struct {
	Next Notifier

	mu    sync.Mutex
	notes []Note
}

// Success implements Notifier
func (r *Recorder) Success(ctx context.Context, msg string) {
	r.add(Note{Level: LevelSuccess, Message: msg})
	if r.Next != nil {
		r.Next.Success(ctx, msg)
	}
}

// Error implements Notifier
func (r *Recorder) Error(ctx context.Context, msg string) {
	r.add(Note{Level: LevelError, Message: msg})
	if r.Next != nil {
		r.Next.Error(ctx, msg)
	}
}

func (r *Recorder) add(n Note) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

// Notes returns what was recorded so far
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

type notifierKey struct{}

// WithNotifier scopes n to ctx; Controller prefers it over its own notifier
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

func notifierFrom(ctx context.Context, fallback Notifier) Notifier {
	if n, ok := ctx.Value(notifierKey{}).(Notifier); ok && n != nil {
		return n
	}
	return fallback
}
