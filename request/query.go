package request

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// parseQuery decodes a raw query string.
//
//	?flag           -> {"flag": true}
//	?arr[]=0&arr[]=1 -> {"arr": []any{"0", "1"}}
//	?a=1&a=2        -> {"a": []any{"1", "2"}}
//	?obj.k0.k1=v    -> {"obj": {"k0": {"k1": "v"}}}
//
// On a malformed escape the pairs that did decode are still returned.
func parseQuery(raw string) (map[string]any, error) {
	q := map[string]any{}
	values, err := url.ParseQuery(raw)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrMalformedQuery, err)
	}

	// dotted keys may collide with plain ones, keep the outcome stable
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		vals := values[key]
		var value any
		if name, ok := strings.CutSuffix(key, "[]"); ok {
			key = name
			value = listValue(vals)
		} else if len(vals) > 1 {
			value = listValue(vals)
		} else {
			value = scalarValue(vals[0])
		}

		if strings.Contains(key, ".") {
			setDotted(q, key, value)
			continue
		}
		q[key] = value
	}
	return q, err
}

func scalarValue(v string) any {
	if v == "" {
		return true
	}
	return v
}

func listValue(vals []string) []any {
	list := make([]any, len(vals))
	for i, v := range vals {
		list[i] = scalarValue(v)
	}
	return list
}

// setDotted stores value under the path a.b.c, replacing any non-map value it
// has to descend through.
func setDotted(obj map[string]any, key string, value any) {
	head, tail, found := strings.Cut(key, ".")
	if !found {
		obj[key] = value
		return
	}
	child, ok := obj[head].(map[string]any)
	if !ok {
		child = map[string]any{}
		obj[head] = child
	}
	setDotted(child, tail, value)
}
