// Package pager fetches one page of a remote list through the shared list cache
// Concurrent reads of the same page share one upstream call
package pager

import (
	"context"
	"strings"
	"sync"

	"careview/internal/core/listcache"
	perr "careview/internal/platform/errors"
	"careview/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

// PageParams selects one page of a list. Both fields are 1-based and positive
type PageParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Validate rejects non-positive page or limit
func (p PageParams) Validate() error {
	if p.Page < 1 {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "page must be >= 1, got %d", p.Page), "page")
	}
	if p.Limit < 1 {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "limit must be >= 1, got %d", p.Limit), "limit")
	}
	return nil
}

// Offset is the number of items before the page
func (p PageParams) Offset() int { return (p.Page - 1) * p.Limit }

// ListResult is one page of items plus the total across all pages
// It is replaced wholesale per fetch; callers must not mutate Items
type ListResult[T any] struct {
	Items []T `json:"results"`
	Count int `json:"count"`
}

// Request is a page read for one owner
type Request struct {
	Owner   string
	Filters map[string]string
	Page    PageParams
}

// Query is what a Source receives; Offset is derived from Page and Limit
type Query struct {
	Owner   string
	Filters map[string]string
	Page    int
	Limit   int
	Offset  int
}

// Source performs the upstream call for one page
type Source[T any] func(ctx context.Context, q Query) (ListResult[T], error)

// Result is the outcome of Fetch
type Result[T any] struct {
	ListResult[T]
	// Disabled is set when there is no owner and nothing was fetched
	Disabled bool
	// Cached is set when the page came from the cache
	Cached bool
	Key    string
}

// Fetcher reads pages of one resource kind
type Fetcher[T any] struct {
	kind  string
	cache *listcache.Cache
	src   Source[T]
	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]int

	log logger.Logger
}

// New builds a fetcher for kind and subscribes it to cache invalidations
func New[T any](kind string, cache *listcache.Cache, src Source[T]) *Fetcher[T] {
	f := &Fetcher[T]{
		kind:     kind,
		cache:    cache,
		src:      src,
		inflight: make(map[string]int),
		log:      *logger.Named("pager"),
	}
	cache.OnInvalidate(f.forget)
	return f
}

// Kind returns the resource kind of the fetcher
func (f *Fetcher[T]) Kind() string { return f.kind }

// Key derives the cache key of req
func (f *Fetcher[T]) Key(req Request) listcache.Key {
	return listcache.Key{
		Kind:    f.kind,
		Owner:   req.Owner,
		Filters: req.Filters,
		Page:    req.Page.Page,
		Limit:   req.Page.Limit,
	}
}

// Prefix is the invalidation prefix for every page owned by owner
func (f *Fetcher[T]) Prefix(owner string) string { return listcache.Prefix(f.kind, owner) }

// Fetch returns the page for req from the cache or the source
// A failed cached entry is retried. Waiting callers give up when ctx ends,
// the shared upstream call itself runs to completion
func (f *Fetcher[T]) Fetch(ctx context.Context, req Request) (Result[T], error) {
	if req.Owner == "" {
		return Result[T]{Disabled: true}, nil
	}
	if err := req.Page.Validate(); err != nil {
		return Result[T]{}, err
	}

	key := f.Key(req)
	ks := key.String()
	if e, ok := f.cache.Get(key); ok && !e.Failed() {
		if lr, ok := e.Value.(ListResult[T]); ok {
			return Result[T]{ListResult: lr, Cached: true, Key: ks}, nil
		}
	}

	detached := context.WithoutCancel(ctx)
	ch := f.group.DoChan(ks, func() (any, error) {
		f.track(ks)
		defer f.untrack(ks)

		ticket := f.cache.Reserve(key)
		lr, err := f.src(detached, Query{
			Owner:   req.Owner,
			Filters: req.Filters,
			Page:    req.Page.Page,
			Limit:   req.Page.Limit,
			Offset:  req.Page.Offset(),
		})
		if err != nil {
			f.cache.Fail(ticket, err)
			return nil, err
		}
		if !f.cache.Put(ticket, lr) {
			logger.C(ctx).Debug().Str("key", ks).Msg("page invalidated while in flight")
		}
		return lr, nil
	})

	select {
	case <-ctx.Done():
		return Result[T]{}, perr.Wrapf(ctx.Err(), perr.ErrorCodeUnavailable, "fetch %s", f.kind)
	case r := <-ch:
		if r.Err != nil {
			logger.C(ctx).Warn().Err(r.Err).Str("key", ks).Bool("shared", r.Shared).Msg("page fetch failed")
			return Result[T]{Key: ks}, r.Err
		}
		return Result[T]{ListResult: r.Val.(ListResult[T]), Key: ks}, nil
	}
}

func (f *Fetcher[T]) track(ks string) {
	f.mu.Lock()
	f.inflight[ks]++
	f.mu.Unlock()
}

func (f *Fetcher[T]) untrack(ks string) {
	f.mu.Lock()
	if f.inflight[ks]--; f.inflight[ks] <= 0 {
		delete(f.inflight, ks)
	}
	f.mu.Unlock()
}

// forget detaches in-flight calls under prefix so later reads start a fresh call
func (f *Fetcher[T]) forget(prefix string) {
	f.mu.Lock()
	var keys []string
	for ks := range f.inflight {
		if strings.HasPrefix(ks, prefix) {
			keys = append(keys, ks)
		}
	}
	f.mu.Unlock()

	for _, ks := range keys {
		f.group.Forget(ks)
	}
	if len(keys) > 0 {
		f.log.Debug().Str("prefix", prefix).Int("forgotten", len(keys)).Msg("in-flight pages detached")
	}
}
