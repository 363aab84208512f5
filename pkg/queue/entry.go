package queue

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/matzehuels/sigpad/pkg/errors"
)

// Value is an ordered list of strings for one form field.
//
// A Value with exactly one element serializes as a JSON string; any other
// length serializes as a JSON array.
type Value []string

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(v))
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a string or an
// array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "field value must be a string or array of strings")
	}
	*v = Value(list)
	return nil
}

// First returns the first element or "".
func (v Value) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// String joins multiple values with ", ".
func (v Value) String() string {
	return strings.Join(v, ", ")
}

// Entry is one pending submission: field name to value.
type Entry map[string]Value

// Get returns the first value of key, or "" when absent.
func (e Entry) Get(key string) string {
	return e[key].First()
}

// Set replaces the values of key.
func (e Entry) Set(key string, values ...string) {
	e[key] = append(Value(nil), values...)
}

// Add appends a value to key.
func (e Entry) Add(key, value string) {
	e[key] = append(e[key], value)
}

// Has reports whether key is present.
func (e Entry) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Keys returns the field names in sorted order.
func (e Entry) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (e Entry) Clone() Entry {
	if e == nil {
		return nil
	}
	out := make(Entry, len(e))
	for k, v := range e {
		out[k] = append(Value(nil), v...)
	}
	return out
}

func decodeEntries(data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func encodeEntries(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}
