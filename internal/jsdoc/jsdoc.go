// Package jsdoc maps fully-qualified JavaScript built-in names to
// documentation records.
package jsdoc

import "regexp"

// Entry documents a single built-in name.
type Entry struct {
	Description string `json:"description"`
	Usage       string `json:"usage,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Table is a static lookup of built-in documentation.
type Table struct {
	entries map[string]Entry
}

// New builds a table over the given entries. The map is used as-is.
func New(entries map[string]Entry) *Table {
	return &Table{entries: entries}
}

var (
	errorPrefix      = regexp.MustCompile(`^\w+Error\.`)
	typedArrayPrefix = regexp.MustCompile(`^\w+Array\.`)
)

// Lookup resolves a fully-qualified name. Absent a verbatim entry it
// retries with an <Anything>Error. prefix rewritten to Error., then
// with an <Anything>Array. prefix rewritten to TypedArray., so error
// subtypes and typed-array variants resolve to their base type's
// documented members.
func (t *Table) Lookup(name string) (Entry, bool) {
	if e, ok := t.entries[name]; ok {
		return e, true
	}
	if rewritten := errorPrefix.ReplaceAllString(name, "Error."); rewritten != name {
		if e, ok := t.entries[rewritten]; ok {
			return e, true
		}
	}
	if rewritten := typedArrayPrefix.ReplaceAllString(name, "TypedArray."); rewritten != name {
		if e, ok := t.entries[rewritten]; ok {
			return e, true
		}
	}
	return Entry{}, false
}
