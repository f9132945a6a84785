// Package strings holds the few string helpers module wiring needs
package strings

import std "strings"

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s, panicking with "<name> is required" when s is blank
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path such as " resources/ " to "/resources"
// and panics when nothing but the root is left
func MustPrefix(s string) string {
	p := "/" + std.Trim(s, " /")
	if p == "/" {
		panic("root path is required")
	}
	return p
}
