package activity

import (
	"bytes"
	"encoding/json"
)

// OrderedKeys returns the top-level keys of a JSON object in the order they
// appear. Anything other than an object yields no keys.
func OrderedKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return []string{}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return []string{}
	}

	keys := []string{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		// Skip the value, however deeply nested.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
		// A repeated key keeps its first position, as a JSON object would.
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
