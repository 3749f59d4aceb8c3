// Package domain defines the core persistence models for the application.
// This file provides the JSON-typed column helpers backing the aggregate
// index and inquiry models. The trait maps are deliberately typed as
// locus -> set-of-strings so the value domain of the search index is
// provably limited to genotype/clearance strings and can never carry an
// identifier.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// TraitSets maps a trait/locus key to the set of distinct values observed
// for it. Values are kept sorted and deduplicated so serialized forms are
// deterministic.
type TraitSets map[string][]string

// Add inserts value into the set for key, keeping the set sorted and unique.
func (t TraitSets) Add(key, value string) {
	if key == "" || value == "" {
		return
	}
	vals := t[key]
	for _, v := range vals {
		if v == value {
			return
		}
	}
	vals = append(vals, value)
	sort.Strings(vals)
	t[key] = vals
}

// Contains reports whether value is present in the set for key.
func (t TraitSets) Contains(key, value string) bool {
	for _, v := range t[key] {
		if v == value {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of values is present in the set for key.
func (t TraitSets) ContainsAny(key string, values []string) bool {
	for _, v := range values {
		if t.Contains(key, v) {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer; the map is stored as a JSON text column.
func (t TraitSets) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *TraitSets) Scan(src any) error {
	return scanJSON(src, t, "TraitSets")
}

// StringList is a JSON-serialized []string column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return scanJSON(src, l, "StringList")
}

// Contains reports whether s is an element of the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// JSONText stores an arbitrary JSON document verbatim. Used for persisted
// search criteria, which are opaque to the data layer.
type JSONText []byte

// MarshalJSON renders the stored document as-is (or null when empty).
func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores a copy of the raw document.
func (j *JSONText) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// Value implements driver.Valuer.
func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = JSONText(v)
		return nil
	}
	return fmt.Errorf("JSONText: unsupported source type %T", src)
}

// scanJSON decodes a JSON text column into dst, tolerating NULL.
func scanJSON(src, dst any, what string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	}
	return fmt.Errorf("%s: unsupported source type %T", what, src)
}
