package mutation

import (
	"context"
	"sync"
)

// Draft is pending user input for a mutation
type Draft[P any] struct {
	mu sync.Mutex
	v  P
}

// Set replaces the draft
func (d *Draft[P]) Set(p P) {
	d.mu.Lock()
	d.v = p
	d.mu.Unlock()
}

// Get returns the draft
func (d *Draft[P]) Get() P {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.v
}

// Clear resets the draft to its zero value
func (d *Draft[P]) Clear() {
	var zero P
	d.Set(zero)
}

// SubmitDraft submits the draft and clears it only when the write succeeded,
// so a rejected or failed submission can be retried as typed
func SubmitDraft[P, R any](ctx context.Context, c *Controller[P, R], d *Draft[P]) (R, error) {
	r, err := c.Submit(ctx, d.Get())
	if err == nil {
		d.Clear()
	}
	return r, err
}
