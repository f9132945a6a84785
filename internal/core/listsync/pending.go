package listsync

import "context"

// Pending is the handle of a started load
type Pending struct {
	gen     uint64
	done    chan struct{}
	applied bool
	err     error
}

func newPending(gen uint64) *Pending {
	return &Pending{gen: gen, done: make(chan struct{})}
}

func donePending(err error) *Pending {
	p := newPending(0)
	p.finish(false, err)
	return p
}

func (p *Pending) finish(applied bool, err error) {
	p.applied = applied
	p.err = err
	close(p.done)
}

// Done is closed when the load has finished
func (p *Pending) Done() <-chan struct{} { return p.done }

// Generation is the view generation the load started
func (p *Pending) Generation() uint64 { return p.gen }

// Wait blocks until the load finished or ctx ended and returns the fetch error
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return p.err
	}
}

// Applied reports whether the load changed the view, false when a later
// load superseded it. Only meaningful after Done
func (p *Pending) Applied() bool {
	<-p.done
	return p.applied
}
