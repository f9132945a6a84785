// Package raw reads env during bootstrap. It must not import the logger,
// which reads its own settings through it
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("LOG_")
type Conf struct{ prefix string }

// New returns a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix returns a child Conf with p appended to the prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Get returns the trimmed value of key, or def when it is blank
func (c Conf) Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(c.prefix + key)); v != "" {
		return v
	}
	return def
}

// GetBool treats 1, true and yes as true, any other value as false and
// blank as def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.Get(key, "")) {
	case "":
		return def
	case "1", "true", "yes":
		return true
	}
	return false
}

// GetInt returns key as a non negative int, or def when blank or not a number
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.Get(key, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}
