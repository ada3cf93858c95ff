package headers

import (
	"bytes"
	"iter"
	"regexp"
	"slices"
	"strings"
)

// https://datatracker.ietf.org/doc/html/rfc9110#name-tokens
var tokenRegex = regexp.MustCompile(`^[a-zA-Z0-9!#$%&'*\+\-.^_\x60\|~]+$`)

// Headers is a case-insensitive set of HTTP fields. Keys are stored lowercased.
// It is not safe for concurrent writes; handlers fanned out in parallel must
// coordinate among themselves.
type Headers struct {
	fields map[string]string
}

// NewHeaders creates an empty Headers.
func NewHeaders() *Headers {
	return &Headers{fields: map[string]string{}}
}

func canonical(key string) string {
	return strings.ToLower(key)
}

func validValue(val string) bool {
	for i := 0; i < len(val); i++ {
		c := val[i]
		// HTAB, SP, VCHAR and obs-text
		if c != '\t' && c != ' ' && (c < 0x21 || c == 0x7f) {
			return false
		}
	}
	return true
}

func valid(key, value string) bool {
	return tokenRegex.MatchString(key) && validValue(value)
}

// Add appends value to key. An existing value is joined with ", ".
// Invalid names or values are dropped so they can never split a response.
func (h *Headers) Add(key, value string) {
	if !valid(key, value) {
		return
	}
	key = canonical(key)
	if existing, ok := h.fields[key]; ok {
		h.fields[key] = existing + ", " + value
		return
	}
	h.fields[key] = value
}

// Set replaces whatever is stored under key.
func (h *Headers) Set(key, value string) {
	if !valid(key, value) {
		return
	}
	h.fields[canonical(key)] = value
}

// Get returns the value of key, or "" when missing.
func (h *Headers) Get(key string) string {
	return h.fields[canonical(key)]
}

// Has reports whether key is present, even with an empty value.
func (h *Headers) Has(key string) bool {
	_, ok := h.fields[canonical(key)]
	return ok
}

// Remove deletes key.
func (h *Headers) Remove(key string) {
	delete(h.fields, canonical(key))
}

// Size returns the number of distinct fields.
func (h *Headers) Size() int {
	return len(h.fields)
}

// All iterates over the fields in lexical key order, so serialized output is
// stable.
func (h *Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		keys := make([]string, 0, len(h.fields))
		for k := range h.fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if !yield(k, h.fields[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (h *Headers) Clone() *Headers {
	c := NewHeaders()
	for k, v := range h.fields {
		c.fields[k] = v
	}
	return c
}

// ParseFieldLine parses a single "name: value" line and adds it.
func (h *Headers) ParseFieldLine(line []byte) error {
	name, value, found := bytes.Cut(line, []byte(":"))
	if !found {
		return ErrMalformedHeader
	}

	// leading whitespace before the name is tolerated, trailing is not
	name = bytes.TrimLeft(name, " \t")
	if len(name) != len(bytes.TrimRight(name, " \t")) {
		return ErrMalformedHeader
	}
	value = bytes.Trim(value, " \t")

	if !valid(string(name), string(value)) {
		return ErrMalformedHeader
	}

	h.Add(string(name), string(value))
	return nil
}
