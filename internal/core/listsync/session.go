// Package listsync ties the query store, search filters, the page fetcher
// and a list view together for one list of one owner
//
// Operations never block the caller: each starts a load in its own goroutine
// and returns a Pending handle. The view only accepts the outcome of the most
// recently started load, so rapid paging or searching cannot show stale pages
package listsync

import (
	"context"
	"errors"
	"sync"

	"careview/internal/core/filter"
	"careview/internal/core/listcache"
	"careview/internal/core/listview"
	"careview/internal/core/pager"
	"careview/internal/core/query"
	perr "careview/internal/platform/errors"
	"careview/internal/platform/logger"
)

// ErrClosed is returned by loads started after Close
var ErrClosed = perr.New(perr.ErrorCodeUnavailable, "list session closed")

// Config wires a Session
type Config[T any] struct {
	Owner   string
	Limit   int
	Fetcher *pager.Fetcher[T]
	Store   query.Store
	// Filter is optional; lists without search leave it nil
	Filter *filter.Controller
	// View is created with Limit when nil
	View *listview.View[T]
	// Watch reloads the list whenever its owner is invalidated in this cache
	Watch *listcache.Cache
}

// Session is one live list
type Session[T any] struct {
	owner   string
	limit   int
	fetcher *pager.Fetcher[T]
	store   query.Store
	filter  *filter.Controller
	view    *listview.View[T]

	ctx     context.Context
	cancel  context.CancelFunc
	unwatch func()

	begin  sync.Mutex
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	log logger.Logger
}

// New builds a session. Nothing is loaded until the first operation
func New[T any](cfg Config[T]) *Session[T] {
	view := cfg.View
	if view == nil {
		view = listview.New[T](cfg.Limit)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session[T]{
		owner:   cfg.Owner,
		limit:   cfg.Limit,
		fetcher: cfg.Fetcher,
		store:   cfg.Store,
		filter:  cfg.Filter,
		view:    view,
		ctx:     ctx,
		cancel:  cancel,
		unwatch: func() {},
		log:     *logger.Named("listsync"),
	}
	if cfg.Watch != nil && cfg.Owner != "" {
		prefix := cfg.Fetcher.Prefix(cfg.Owner)
		s.unwatch = cfg.Watch.OnInvalidate(func(p string) {
			if p == prefix {
				s.Refresh()
			}
		})
	}
	return s
}

// View returns the session's list view
func (s *Session[T]) View() *listview.View[T] { return s.view }

// Snapshot is shorthand for View().Snapshot()
func (s *Session[T]) Snapshot() listview.Snapshot[T] { return s.view.Snapshot() }

// Request derives the page request from the current store
func (s *Session[T]) Request() pager.Request {
	var filters map[string]string
	if s.filter != nil {
		filters = s.filter.State()
	}
	return pager.Request{
		Owner:   s.owner,
		Filters: filters,
		Page:    pager.PageParams{Page: query.Page(s.store), Limit: s.limit},
	}
}

// Refresh loads the page the store currently points at
func (s *Session[T]) Refresh() *Pending {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return donePending(ErrClosed)
	}
	s.wg.Add(1)
	s.mu.Unlock()

	// reading the store and starting the generation must not interleave
	s.begin.Lock()
	req := s.Request()
	gen := s.view.Begin(s.fetcher.Key(req).String(), req.Page.Page)
	s.begin.Unlock()
	p := newPending(gen)

	go func() {
		defer s.wg.Done()
		res, err := s.fetcher.Fetch(s.ctx, req)
		applied := s.view.Resolve(gen, res, err)
		if !applied {
			s.log.Debug().Uint64("generation", gen).Msg("superseded load discarded")
		}
		p.finish(applied, err)
	}()
	return p
}

// SetPage moves to page and loads it
func (s *Session[T]) SetPage(page int) *Pending {
	query.SetPage(s.store, page)
	return s.Refresh()
}

// Search applies raw input to field and loads the first page of results
// A rejected value is reported while the cleared search still loads
func (s *Session[T]) Search(field, raw string) (*Pending, error) {
	if s.filter == nil {
		return donePending(nil), perr.InvalidArgf("list has no search")
	}
	_, err := s.filter.Apply(field, raw)
	if perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		return donePending(nil), err
	}
	return s.Refresh(), err
}

// ClearSearch drops every search field and loads the first page
func (s *Session[T]) ClearSearch() *Pending {
	if s.filter != nil {
		s.filter.Clear()
	} else {
		query.SetPage(s.store, 1)
	}
	return s.Refresh()
}

// Load refreshes and waits for the outcome. Fetch failures are reported
// through the snapshot's failed state; the error is set only when ctx
// ended first or the session is closed
func (s *Session[T]) Load(ctx context.Context) (listview.Snapshot[T], error) {
	err := s.Refresh().Wait(ctx)
	if errors.Is(err, ErrClosed) || ctx.Err() != nil {
		return s.view.Snapshot(), err
	}
	return s.view.Snapshot(), nil
}

// Close stops watching the cache, cancels waiting loads and waits for them
func (s *Session[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.unwatch()
	s.cancel()
	s.wg.Wait()
}
