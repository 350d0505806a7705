package fetch

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Headers is a case-insensitive header multimap. Names are stored
// lower-cased and repeated values for a name are joined with ", ".
//
// A Headers value is owned by a single Request or Response and is not
// safe for concurrent mutation.
type Headers struct {
	underlying map[string]string
}

// Entry is a single name/value pair of a [Headers] snapshot.
type Entry struct {
	Name  string
	Value string
}

// NewHeaders returns an empty header store.
func NewHeaders() *Headers {
	return &Headers{underlying: make(map[string]string)}
}

// HeadersFrom builds a store from a plain mapping. Names differing only
// in case are merged as if appended, in unspecified order.
func HeadersFrom(init map[string]string) *Headers {
	h := &Headers{underlying: make(map[string]string, len(init))}
	for k, v := range init {
		h.Append(k, v)
	}

	return h
}

// HeadersFromPairs builds a store from an ordered list of [name, value]
// pairs. Every pair must hold exactly two items.
func HeadersFromPairs(pairs [][]string) (*Headers, error) {
	h := &Headers{underlying: make(map[string]string, len(pairs))}
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("pair[%d] has %d items: %w", i, len(pair), ErrInvalidHeaderPair)
		}
		h.Append(pair[0], pair[1])
	}

	return h, nil
}

// Append adds value to name, joining it onto any existing value.
func (h *Headers) Append(name, value string) {
	h.init()

	name = canonical(name)
	if existing, ok := h.underlying[name]; ok && existing != "" {
		h.underlying[name] = existing + ", " + value
		return
	}
	h.underlying[name] = value
}

// Set overwrites the value stored for name.
func (h *Headers) Set(name, value string) {
	h.init()
	h.underlying[canonical(name)] = value
}

func (h *Headers) Delete(name string) {
	delete(h.underlying, canonical(name))
}

// Get returns the value for name and whether the name is present.
func (h *Headers) Get(name string) (string, bool) {
	v, ok := h.underlying[canonical(name)]
	return v, ok
}

func (h *Headers) Has(name string) bool {
	_, ok := h.underlying[canonical(name)]
	return ok
}

func (h *Headers) Len() int {
	return len(h.underlying)
}

// Keys returns the stored names, sorted.
func (h *Headers) Keys() []string {
	return slices.Sorted(maps.Keys(h.underlying))
}

// Values returns the stored values in the order of [Headers.Keys].
func (h *Headers) Values() []string {
	keys := h.Keys()
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = h.underlying[k]
	}

	return values
}

// Entries returns a snapshot of every name/value pair, sorted by name.
func (h *Headers) Entries() []Entry {
	keys := h.Keys()
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Name: k, Value: h.underlying[k]}
	}

	return entries
}

// ForEach calls fn for every entry of a call-time snapshot.
func (h *Headers) ForEach(fn func(value, name string, h *Headers)) {
	for _, e := range h.Entries() {
		fn(e.Value, e.Name, h)
	}
}

// Map flattens the store into a plain mapping owned by the caller.
func (h *Headers) Map() map[string]string {
	m := make(map[string]string, len(h.underlying))
	maps.Copy(m, h.underlying)

	return m
}

// Clone returns a deep copy. A nil receiver yields an empty store.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return NewHeaders()
	}

	return &Headers{underlying: h.Map()}
}

// String renders the headers one per line in "name: value" form.
func (h *Headers) String() string {
	var b strings.Builder
	for _, e := range h.Entries() {
		b.WriteString(e.Name)
		b.WriteString(": ")
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}

	return b.String()
}

func (h *Headers) init() {
	if h.underlying == nil {
		h.underlying = make(map[string]string)
	}
}

func canonical(name string) string {
	return strings.ToLower(name)
}
