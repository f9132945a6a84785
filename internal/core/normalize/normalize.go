// Package normalize folds typed phone numbers to the form the care API
// expects. Free text is never rewritten here, comments and names are sent
// as typed
//
// Phone folds compatibility forms such as fullwidth digits to ASCII and
// strips invisible characters and common separators
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformers are stateful, so chains are pooled rather than shared
var (
	textPool = sync.Pool{New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // ZWSP ZWJ BOM etc
		)
	}}
	phonePool = sync.Pool{New: func() any {
		return transform.Chain(norm.NFKC, width.Fold)
	}}
)

func apply(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// text returns s sanitized, NFC composed, without format characters and
// trimmed at both ends
func text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(apply(&textPool, Sanitize(s)))
}

// Phone folds s to ASCII and removes spaces, dashes, dots and parentheses
// It does not validate the result
func Phone(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '-', '(', ')', '.':
			return -1
		}
		return r
	}, apply(&phonePool, text(s)))
}
