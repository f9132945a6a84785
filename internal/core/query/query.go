// Package query holds the URL-addressable state of a list view
// The current location is the source of truth for page, filters and sheets
package query

import (
	"net/url"
	"strconv"
	"sync"
)

// Param names shared by the list views
const (
	ParamPage        = "page"
	ParamName        = "name"
	ParamPhoneNumber = "phone_number"
	ParamSheet       = "sheet"
	ParamUsername    = "username"
)

// Store reads and writes named parameters of the current location
type Store interface {
	// Get returns the value for key; empty values are reported as absent
	Get(key string) (string, bool)
	// Set merges partial into the current parameters, an empty value removes its key
	Set(partial map[string]string)
}

// Navigator receives the new location after every Set
type Navigator interface {
	Navigate(u *url.URL)
}

// NavigatorFunc adapts a func to Navigator
type NavigatorFunc func(u *url.URL)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(u *url.URL) { f(u) }

// URLStore is a Store over a url.URL
// It is safe for concurrent use; the navigator is called outside the lock
type URLStore struct {
	mu  sync.RWMutex
	u   url.URL
	nav Navigator
}

// NewURLStore copies u and returns a store over it. nav may be nil
func NewURLStore(u *url.URL, nav Navigator) *URLStore {
	s := &URLStore{nav: nav}
	if u != nil {
		s.u = *u
	}
	return s
}

// Parse builds a store from a raw URL or path with query, e.g. "/users?page=2"
func Parse(raw string, nav Navigator) (*URLStore, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewURLStore(u, nav), nil
}

// Get implements Store
func (s *URLStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.u.Query().Get(key)
	return v, v != ""
}

// Set implements Store
func (s *URLStore) Set(partial map[string]string) {
	if len(partial) == 0 {
		return
	}
	s.mu.Lock()
	q := s.u.Query()
	for k, v := range partial {
		if v == "" {
			q.Del(k)
			continue
		}
		q.Set(k, v)
	}
	s.u.RawQuery = q.Encode()
	next := s.u
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate(&next)
	}
}

// URL returns a copy of the current location
func (s *URLStore) URL() *url.URL {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.u
	return &u
}

// Encode returns the canonical query string of the current location
func (s *URLStore) Encode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.u.Query().Encode()
}

// Values returns a copy of the current parameters
func (s *URLStore) Values() url.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.u.Query()
}

// Page reads the page param; missing or invalid values yield 1
func Page(s Store) int {
	raw, ok := s.Get(ParamPage)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// SetPage writes the page param, page 1 is kept explicit so history entries differ
func SetPage(s Store, page int) {
	if page < 1 {
		page = 1
	}
	s.Set(map[string]string{ParamPage: strconv.Itoa(page)})
}
