// Package listview holds the presentation state of one paginated list
// Only the most recently started load may change what the view shows
package listview

import (
	"sync"

	"careview/internal/core/pager"
	perr "careview/internal/platform/errors"
)

// State of a list view
type State string

const (
	Loading   State = "loading"
	Empty     State = "empty"
	Populated State = "populated"
	Failed    State = "failed"
	Disabled  State = "disabled"
)

// Order is the presentation order of a fetched page
type Order uint8

const (
	// AsFetched keeps the server order
	AsFetched Order = iota
	// Reversed shows the page back to front
	Reversed
)

// Pagination describes the pager control. The block is always present,
// Visible is false when everything fits on one page
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	Visible bool `json:"visible"`
}

// NewPagination builds the control for total items at page
func NewPagination(page, limit, total int) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.Pages = (total + limit - 1) / limit
		p.Visible = total > limit
	}
	return p
}

// Snapshot is a copy of the view at one point in time
type Snapshot[T any] struct {
	State      State      `json:"state"`
	Items      []T        `json:"items"`
	Count      int        `json:"count"`
	Fetching   bool       `json:"fetching"`
	Pagination Pagination `json:"pagination"`
	Error      *perr.Wire `json:"error,omitempty"`
	Err        error      `json:"-"`
	Key        string     `json:"-"`
	Generation uint64     `json:"-"`
}

// Option configures a View
type Option func(*options)

type options struct {
	order Order
}

// WithOrder sets the presentation order
func WithOrder(o Order) Option {
	return func(opts *options) { opts.order = o }
}

// View tracks load generations and the resulting snapshot
type View[T any] struct {
	mu    sync.Mutex
	limit int
	order Order
	gen   uint64
	page  int
	snap  Snapshot[T]
	subs  []func(Snapshot[T])
	seq   uint64 // state changes, guarded by mu

	deliver sync.Mutex
	sent    uint64 // last seq handed to subscribers, guarded by deliver
}

// New returns a view in the loading state for pages of limit items
func New[T any](limit int, opts ...Option) *View[T] {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	return &View[T]{
		limit: limit,
		order: o.order,
		page:  1,
		snap:  Snapshot[T]{State: Loading, Pagination: NewPagination(1, limit, 0)},
	}
}

// Begin starts a load of key at page and returns its generation
// The view shows loading when key changed or nothing was shown yet,
// otherwise it keeps the current items and only flags fetching
func (v *View[T]) Begin(key string, page int) uint64 {
	v.mu.Lock()
	v.gen++
	if key != v.snap.Key || !hasData(v.snap.State) {
		v.snap.State = Loading
		v.snap.Items = nil
		v.snap.Count = 0
		v.snap.Err = nil
		v.snap.Error = nil
		v.snap.Pagination = NewPagination(page, v.limit, 0)
	}
	v.page = page
	v.snap.Key = key
	v.snap.Fetching = true
	v.snap.Generation = v.gen
	v.seq++
	snap, subs, seq := v.snap, v.subs, v.seq
	gen := v.gen
	v.mu.Unlock()

	v.notify(subs, snap, seq)
	return gen
}

// Resolve applies the outcome of load gen. It returns false and changes
// nothing when a later load has been started since
func (v *View[T]) Resolve(gen uint64, res pager.Result[T], err error) bool {
	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		return false
	}

	next := Snapshot[T]{Key: v.snap.Key, Generation: gen}
	switch {
	case err != nil:
		w := perr.WireFrom(err)
		next.State = Failed
		next.Err = err
		next.Error = &w
		next.Pagination = NewPagination(v.page, v.limit, 0)
	case res.Disabled:
		next.State = Disabled
		next.Pagination = NewPagination(v.page, v.limit, 0)
	case len(res.Items) == 0:
		next.State = Empty
		next.Count = res.Count
		next.Items = []T{}
		next.Pagination = NewPagination(v.page, v.limit, res.Count)
	default:
		next.State = Populated
		next.Count = res.Count
		next.Items = present(res.Items, v.order)
		next.Pagination = NewPagination(v.page, v.limit, res.Count)
	}
	v.snap = next
	v.seq++
	subs, seq := v.subs, v.seq
	v.mu.Unlock()

	v.notify(subs, next, seq)
	return true
}

// Snapshot returns the current state. Items must be treated as read only
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// Generation is the generation of the latest Begin
func (v *View[T]) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

// Subscribe registers fn to receive state changes in the order they were
// made. When changes race, a change that was overtaken by a later one is
// skipped, so the last snapshot fn sees is always the current one
// fn is called without the view lock held but must not call Begin or
// Resolve on the same view
func (v *View[T]) Subscribe(fn func(Snapshot[T])) {
	v.mu.Lock()
	v.subs = append(v.subs, fn)
	v.mu.Unlock()
}

func (v *View[T]) notify(subs []func(Snapshot[T]), s Snapshot[T], seq uint64) {
	if len(subs) == 0 {
		return
	}
	v.deliver.Lock()
	defer v.deliver.Unlock()
	if seq <= v.sent {
		return
	}
	v.sent = seq
	for _, fn := range subs {
		fn(s)
	}
}

func hasData(s State) bool { return s == Populated || s == Empty }

func present[T any](items []T, o Order) []T {
	if o == Reversed {
		return Reverse(items)
	}
	return items
}

// Reverse returns a reversed copy of items
func Reverse[T any](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}
