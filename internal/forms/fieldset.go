package forms

import (
	"encoding/json"
	"strings"
)

// FieldSet is an insertion-ordered collection of named field values.
// Names are unique under case-insensitive, whitespace-trimmed comparison.
// Re-adding an existing name keeps whichever value has the higher
// confidence; a later match never overwrites a more confident one.
type FieldSet struct {
	names  []string
	values map[string]FieldValue
}

// NewFieldSet returns an empty field set.
func NewFieldSet() *FieldSet {
	return &FieldSet{values: make(map[string]FieldValue)}
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Set inserts or updates a field. The first spelling of a name is the one
// preserved for display.
func (fs *FieldSet) Set(name string, value FieldValue) {
	key := normalizeKey(name)
	if key == "" {
		return
	}
	if existing, ok := fs.values[key]; ok {
		if value.Confidence > existing.Confidence {
			fs.values[key] = value
		}
		return
	}
	fs.names = append(fs.names, strings.TrimSpace(name))
	fs.values[key] = value
}

// Get looks up a field by name, case-insensitively.
func (fs *FieldSet) Get(name string) (FieldValue, bool) {
	v, ok := fs.values[normalizeKey(name)]
	return v, ok
}

// Names returns field names in discovery order.
func (fs *FieldSet) Names() []string {
	out := make([]string, len(fs.names))
	copy(out, fs.names)
	return out
}

// Len returns the number of fields in the set.
func (fs *FieldSet) Len() int {
	return len(fs.names)
}

// Range calls fn for each field in discovery order, stopping if fn
// returns false.
func (fs *FieldSet) Range(fn func(name string, value FieldValue) bool) {
	for _, name := range fs.names {
		if !fn(name, fs.values[normalizeKey(name)]) {
			return
		}
	}
}

// Clone returns an independent copy of the set.
func (fs *FieldSet) Clone() *FieldSet {
	out := NewFieldSet()
	fs.Range(func(name string, value FieldValue) bool {
		out.Set(name, value)
		return true
	})
	return out
}

type fieldEntry struct {
	Name  string     `json:"name"`
	Value FieldValue `json:"value"`
}

// MarshalJSON encodes the set as an ordered array so discovery order
// survives a round trip.
func (fs *FieldSet) MarshalJSON() ([]byte, error) {
	entries := make([]fieldEntry, 0, len(fs.names))
	fs.Range(func(name string, value FieldValue) bool {
		entries = append(entries, fieldEntry{Name: name, Value: value})
		return true
	})
	return json.Marshal(entries)
}

// UnmarshalJSON decodes the ordered array form produced by MarshalJSON.
func (fs *FieldSet) UnmarshalJSON(data []byte) error {
	var entries []fieldEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	fs.names = nil
	fs.values = make(map[string]FieldValue, len(entries))
	for _, e := range entries {
		fs.Set(e.Name, e.Value)
	}
	return nil
}
