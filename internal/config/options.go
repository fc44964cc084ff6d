// Package config holds the loosely-typed option bag passed from the reader
// facade down into parser packages.
//
// Parsers read options through typed getters with explicit defaults, so a
// missing or mistyped key degrades to the documented default instead of
// failing deep inside a parse.
package config

import "strings"

// Options is a string-keyed option bag with typed accessors.
type Options map[string]any

// Any returns the raw value for key, or nil.
func (o Options) Any(key string) any {
	if o == nil {
		return nil
	}
	return o[key]
}

// String returns a string option or def when absent/mistyped.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns a bool option or def when absent/mistyped.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Int returns an int option or def. JSON round-trips store numbers as
// float64, so that representation is accepted too.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Float returns a float64 option or def.
func (o Options) Float(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// Rune returns the first rune of a string option, a rune option, or def.
func (o Options) Rune(key string, def rune) rune {
	switch v := o[key].(type) {
	case rune:
		if v != 0 {
			return v
		}
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string option, tolerating the
// map[string]any form produced by JSON decoding.
func (o Options) StringMap(key string) map[string]string {
	out := map[string]string{}
	switch m := o[key].(type) {
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}
