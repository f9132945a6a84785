// Package filter keeps a group of mutually exclusive search fields in the query store
package filter

import (
	"strings"

	"careview/internal/core/normalize"
	"careview/internal/core/query"
	perr "careview/internal/platform/errors"
	"careview/internal/platform/net/http/bind"
)

// Kind is the value type of a search field
type Kind uint8

const (
	// Text passes the raw value through
	Text Kind = iota
	// Phone accepts only numbers in international (E.164) format
	Phone
)

func (k Kind) String() string {
	switch k {
	case Phone:
		return "phone"
	default:
		return "text"
	}
}

// Field is one search option. Key is what the search box calls it,
// Param is the query parameter it is stored under
type Field struct {
	Key         string
	Param       string
	Kind        Kind
	Placeholder string
}

// State maps query params to their active values; absent params are omitted
type State map[string]string

// Controller applies search input to a store
type Controller struct {
	store  query.Store
	fields []Field
}

// New returns a controller over fields, the first field is the default
func New(store query.Store, fields ...Field) *Controller {
	return &Controller{store: store, fields: fields}
}

// Fields returns the configured fields in order
func (c *Controller) Fields() []Field { return append([]Field(nil), c.fields...) }

// Field looks up a field by key
func (c *Controller) Field(key string) (Field, bool) {
	for _, f := range c.fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Apply activates field with raw input. Every other field of the group is
// cleared and the page is reset to 1. A rejected value is stored as absent
// and reported as a validation error alongside the resulting state
func (c *Controller) Apply(key, raw string) (State, error) {
	f, ok := c.Field(key)
	if !ok {
		return c.State(), perr.WithField(perr.InvalidArgf("unknown search field %q", key), "field")
	}

	partial := c.reset()
	value, err := Normalize(f, raw)
	if value != "" {
		partial[f.Param] = value
	}
	c.store.Set(partial)
	return c.State(), err
}

// Clear removes every field of the group and resets the page to 1
func (c *Controller) Clear() State {
	c.store.Set(c.reset())
	return c.State()
}

func (c *Controller) reset() map[string]string {
	partial := make(map[string]string, len(c.fields)+1)
	for _, f := range c.fields {
		partial[f.Param] = ""
	}
	partial[query.ParamPage] = "1"
	return partial
}

// State reads the group from the store. Values that would be rejected by
// Apply, such as a hand-edited phone number, are left out
func (c *Controller) State() State {
	st := State{}
	for _, f := range c.fields {
		raw, ok := c.store.Get(f.Param)
		if !ok {
			continue
		}
		if v, err := Normalize(f, raw); err == nil && v != "" {
			st[f.Param] = v
		}
	}
	return st
}

// Value returns the current value of the field named key
func (c *Controller) Value(key string) string {
	f, ok := c.Field(key)
	if !ok {
		return ""
	}
	return c.State()[f.Param]
}

// Active returns the index of the first field holding a value, or 0
func (c *Controller) Active() int {
	st := c.State()
	for i, f := range c.fields {
		if st[f.Param] != "" {
			return i
		}
	}
	return 0
}

// Normalize turns raw input into the value stored for f
// Whitespace-only input is absent. Phone input may carry spaces, dashes
// or parentheses, which are stripped before the number is checked
func Normalize(f Field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	if f.Kind != Phone {
		return raw, nil
	}
	p := normalize.Phone(raw)
	if !ValidPhone(p) {
		return "", perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%q is not a valid phone number", raw), f.Param)
	}
	return p, nil
}

// ValidPhone reports whether s is an E.164 number that exists in its
// country's numbering plan
func ValidPhone(s string) bool {
	return bind.Valid(s, "required,e164,phone")
}
