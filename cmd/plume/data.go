package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"plume/internal/codegen"
)

// loadDataFile reads a TOML file of template values. Top-level scalars
// feed expression lookup, arrays feed `each` iteration. The raw bytes
// come back too: they fingerprint the cache key, so editing the data
// file invalidates cached renders.
func loadDataFile(path string) (codegen.MapLookup, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return codegen.MapLookup{}, nil, fmt.Errorf("failed to read data file: %w", err)
	}
	var values map[string]any
	if err := toml.Unmarshal(raw, &values); err != nil {
		return codegen.MapLookup{}, nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	lookup := codegen.MapLookup{
		Values: make(map[string]string),
		Lists:  make(map[string][]string),
	}
	for key, value := range values {
		switch v := value.(type) {
		case string:
			lookup.Values[key] = v
		case bool:
			lookup.Values[key] = strconv.FormatBool(v)
		case int64:
			lookup.Values[key] = strconv.FormatInt(v, 10)
		case float64:
			lookup.Values[key] = strconv.FormatFloat(v, 'g', -1, 64)
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					items = append(items, s)
					continue
				}
				items = append(items, fmt.Sprint(item))
			}
			lookup.Lists[key] = items
		default:
			// tables and nested structures are outside the value model
			return codegen.MapLookup{}, nil, fmt.Errorf("%s: key %q: only strings, numbers, booleans and arrays are supported", path, key)
		}
	}
	return lookup, raw, nil
}
