package catalog

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Wrapper keys accepted around catalog lists.
const (
	ZonesKey    = "zones"
	PersonasKey = "focus_personas"
)

// Entries extracts the entry list from a decoded catalog document. The document may
// be the list itself or an object wrapping it under key. Anything else yields nil.
func Entries(doc any, key string) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	case map[string]any:
		if inner, ok := v[key]; ok {
			return Entries(inner, "")
		}
	}
	return nil
}

// asObject returns entry as a string-keyed map. YAML decoders may produce
// map[any]any for nested documents, which is converted here.
func asObject(entry any) (map[string]any, bool) {
	switch v := entry.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	}
	return nil, false
}

// decode fills target from a raw object. Scalars are weakly converted to strings;
// structured values in string fields decode as empty.
func decode(raw map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       blankStructuredStrings,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// blankStructuredStrings maps maps, lists and structs bound for a string field to "".
func blankStructuredStrings(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
		return "", nil
	}
	return data, nil
}

// stringList keeps only list-shaped trait values; any other shape is treated as absent.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if strs, ok := v.([]string); ok {
			return append([]string{}, strs...)
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case nil:
		case string:
			out = append(out, s)
		default:
			out = append(out, fmt.Sprintf("%v", s))
		}
	}
	return out
}

// first returns the first non-empty string.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
