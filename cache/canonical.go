package cache

import (
	"encoding/base64"
	"encoding/json"
	"sort"
)

// CanonicalIdentifier derives a stable Fingerprint.Identifier from an
// arbitrary argument set: it canonicalizes v to JSON with map keys sorted
// (so identical arguments in any map-iteration order produce the same
// bytes) and base64-encodes the result, per the spec's "base64 of a
// canonicalized argument set" identifier rule for search-style operations.
func CanonicalIdentifier(v any) (string, error) {
	canon, err := canonicalize(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(canon), nil
}

// canonicalize produces a deterministic JSON representation of v, sorting
// map keys so that iteration order never affects the output.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')
	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}
		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')
	return result, nil
}
