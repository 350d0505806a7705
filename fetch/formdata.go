package fetch

import "slices"

// FormData is an ordered list of form fields. Names may repeat.
type FormData struct {
	entries []formEntry
}

type formEntry struct {
	name     string
	value    string
	filename string
	hasFile  bool
}

func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a field. An optional filename marks the field as a file part.
func (f *FormData) Append(name, value string, filename ...string) {
	e := formEntry{name: name, value: value}
	if len(filename) > 0 {
		e.filename = filename[0]
		e.hasFile = true
	}
	f.entries = append(f.entries, e)
}

// Set removes every field called name, then appends a single one.
func (f *FormData) Set(name, value string, filename ...string) {
	f.Delete(name)
	f.Append(name, value, filename...)
}

// Delete removes every field called name.
func (f *FormData) Delete(name string) {
	f.entries = slices.DeleteFunc(f.entries, func(e formEntry) bool {
		return e.name == name
	})
}

// Get returns the first value for name.
func (f *FormData) Get(name string) (string, bool) {
	for _, e := range f.entries {
		if e.name == name {
			return e.value, true
		}
	}

	return "", false
}

// GetAll returns every value for name in insertion order.
func (f *FormData) GetAll(name string) []string {
	var values []string
	for _, e := range f.entries {
		if e.name == name {
			values = append(values, e.value)
		}
	}

	return values
}

// Filename returns the filename of the first field called name, if it has one.
func (f *FormData) Filename(name string) (string, bool) {
	for _, e := range f.entries {
		if e.name == name {
			return e.filename, e.hasFile
		}
	}

	return "", false
}

func (f *FormData) Has(name string) bool {
	return slices.ContainsFunc(f.entries, func(e formEntry) bool {
		return e.name == name
	})
}

func (f *FormData) Len() int {
	return len(f.entries)
}

// Entries returns the [name, value] pairs in insertion order.
func (f *FormData) Entries() [][2]string {
	pairs := make([][2]string, len(f.entries))
	for i, e := range f.entries {
		pairs[i] = [2]string{e.name, e.value}
	}

	return pairs
}

func (f *FormData) Keys() []string {
	keys := make([]string, len(f.entries))
	for i, e := range f.entries {
		keys[i] = e.name
	}

	return keys
}

func (f *FormData) Values() []string {
	values := make([]string, len(f.entries))
	for i, e := range f.entries {
		values[i] = e.value
	}

	return values
}

// ForEach calls fn for every field of a call-time snapshot.
func (f *FormData) ForEach(fn func(value, name string, f *FormData)) {
	for _, p := range f.Entries() {
		fn(p[1], p[0], f)
	}
}

// Clone returns an independent copy.
func (f *FormData) Clone() *FormData {
	if f == nil {
		return nil
	}

	return &FormData{entries: slices.Clone(f.entries)}
}
