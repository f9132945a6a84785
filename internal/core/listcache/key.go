// Package listcache is the shared cache of fetched list pages
// Entries are keyed by resource kind, owner, filters and page, and are
// invalidated by owner prefix so filters and pages never need enumerating
package listcache

import (
	"net/url"
	"strconv"
)

// Key identifies one cached page of a list
type Key struct {
	Kind    string
	Owner   string
	Filters map[string]string
	Page    int
	Limit   int
}

// Prefix returns the invalidation prefix for every page of kind owned by owner
func Prefix(kind, owner string) string {
	return url.QueryEscape(kind) + ":" + url.QueryEscape(owner) + "?"
}

// Prefix returns the owner scope of k, ignoring filters and paging
func (k Key) Prefix() string { return Prefix(k.Kind, k.Owner) }

// String renders k canonically; equal keys render equal strings
// Empty filter values are dropped so absent and empty filters share a key
func (k Key) String() string {
	v := url.Values{}
	for name, val := range k.Filters {
		if val == "" {
			continue
		}
		v.Set(name, val)
	}
	return k.Prefix() + v.Encode() + "#limit=" + strconv.Itoa(k.Limit) + "&page=" + strconv.Itoa(k.Page)
}
