package utils

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// DecodeTOML decodes the TOML file at path into v.
func DecodeTOML(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// DecodeTOMLTables decodes path without a schema and returns its top level
// tables, so a table holding one value of the wrong type can still be read
// key by key.
func DecodeTOMLTables(path string) (map[string]map[string]any, error) {
	raw := make(map[string]any)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	tables := make(map[string]map[string]any, len(raw))
	for name, v := range raw {
		if table, ok := v.(map[string]any); ok {
			tables[name] = table
		}
	}
	return tables, nil
}

// Lookup returns table[key] if it holds a T.
func Lookup[T any](table map[string]any, key string) (T, bool) {
	v, ok := table[key].(T)
	return v, ok
}

// LookupInt is Lookup for integers, which TOML decodes as int64.
func LookupInt(table map[string]any, key string) (int, bool) {
	v, ok := Lookup[int64](table, key)
	return int(v), ok
}
