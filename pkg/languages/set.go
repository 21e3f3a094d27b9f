// Package languages holds the candidate set a filter searches: an ordered
// mapping from language code to display name.
package languages

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Set is an insertion-ordered code -> display name mapping.
// Iteration order is the order codes were first added.
type Set struct {
	m *orderedmap.OrderedMap[string, string]
}

// New returns an empty set.
func New() *Set {
	return &Set{m: orderedmap.New[string, string]()}
}

// FromPairs builds a set from alternating code, name arguments.
// A trailing code without a name is ignored.
func FromPairs(pairs ...string) *Set {
	s := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Add(pairs[i], pairs[i+1])
	}
	return s
}

// Add inserts or renames a code. Renaming keeps the original position.
func (s *Set) Add(code, name string) {
	s.m.Set(code, name)
}

// Name returns the display name for code.
func (s *Set) Name(code string) (string, bool) {
	if s == nil {
		return "", false
	}
	return s.m.Get(code)
}

// Has reports whether code is a candidate.
func (s *Set) Has(code string) bool {
	_, ok := s.Name(code)
	return ok
}

// Len returns the number of candidates.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Codes returns all codes in set order.
func (s *Set) Codes() []string {
	if s == nil {
		return nil
	}
	codes := make([]string, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		codes = append(codes, pair.Key)
	}
	return codes
}

// Each calls fn for every candidate in order until fn returns false.
func (s *Set) Each(fn func(code, name string) bool) {
	if s == nil {
		return
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalJSON encodes the set as a JSON object in set order.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.m)
}

// UnmarshalJSON decodes a JSON object, keeping document order.
func (s *Set) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, m); err != nil {
		return err
	}
	s.m = m
	return nil
}
