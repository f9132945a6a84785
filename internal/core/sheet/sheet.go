// Package sheet tracks which side sheet of a list view is open
// The state lives in the "sheet" query param so it survives reloads
package sheet

import "careview/internal/core/query"

// Sheet is the open sheet of a view
type Sheet string

const (
	Closed Sheet = ""
	Add    Sheet = "add"
	Link   Sheet = "link"
)

// Parse maps a query value to a Sheet, unknown values are Closed
func Parse(s string) Sheet {
	switch Sheet(s) {
	case Add, Link:
		return Sheet(s)
	}
	return Closed
}

// Current reads the sheet from store
func Current(store query.Store) Sheet {
	v, _ := store.Get(query.ParamSheet)
	return Parse(v)
}

// Preselected is the username the link sheet opens with, if any
func Preselected(store query.Store) string {
	v, _ := store.Get(query.ParamUsername)
	return v
}

// SetOpen opens or closes which. Toggling the link sheet always drops
// the preselected username
func SetOpen(store query.Store, which Sheet, open bool) {
	next := string(which)
	if !open {
		next = ""
	}
	switch which {
	case Link:
		store.Set(map[string]string{query.ParamSheet: next, query.ParamUsername: ""})
	case Add:
		store.Set(map[string]string{query.ParamSheet: next})
	default:
		store.Set(map[string]string{query.ParamSheet: ""})
	}
}

// UserCreated moves from the add sheet to the link sheet with username selected
func UserCreated(store query.Store, username string) {
	store.Set(map[string]string{query.ParamSheet: string(Link), query.ParamUsername: username})
}
