package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one raw JSON object from the booking API. Field names upstream
// are not stable, so every accessor takes an ordered list of keys and uses
// the first one that yields a usable value.
type Record map[string]any

// DecodeList decodes a JSON array of objects. Anything that is not an array
// decodes to nil; non-object elements are skipped.
func DecodeList(raw []byte) []Record {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return listOf(items)
}

func listOf(items []any) []Record {
	out := make([]Record, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Str returns the first non-empty string among keys, trimmed.
// Numbers are formatted without a trailing ".0" so ids compare as strings.
func (r Record) Str(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// Float returns the first numeric value among keys. Numeric strings count.
func (r Record) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64:
			return v, true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Int is Float truncated to an int.
func (r Record) Int(keys ...string) (int, bool) {
	f, ok := r.Float(keys...)
	return int(f), ok
}

// Count is like Int but an array value counts its elements.
func (r Record) Count(keys ...string) (int, bool) {
	for _, k := range keys {
		if arr, ok := r[k].([]any); ok {
			return len(arr), true
		}
		if n, ok := r.Int(k); ok {
			return n, true
		}
	}
	return 0, false
}

// Bool returns the first boolean among keys; "true"/"false" strings count.
func (r Record) Bool(keys ...string) (bool, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case bool:
			return v, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, true
			}
		}
	}
	return false, false
}

// Object returns the nested object under the first matching key, or nil.
func (r Record) Object(keys ...string) Record {
	for _, k := range keys {
		if m, ok := r[k].(map[string]any); ok {
			return Record(m)
		}
		if m, ok := r[k].(Record); ok {
			return m
		}
	}
	return nil
}

// List returns the object elements of the array under key.
func (r Record) List(key string) []Record {
	switch v := r[key].(type) {
	case []any:
		return listOf(v)
	case []Record:
		return v
	}
	return nil
}

// Clone makes a shallow copy so callers can add fields without touching
// the source payload.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
