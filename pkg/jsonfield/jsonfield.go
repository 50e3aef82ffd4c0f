// Package jsonfield extracts a single field from structured command output
// by dotted path, e.g. "package.version" or "packages.0.name".
package jsonfield

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFieldNotFound is returned when the path does not resolve to a value
var ErrFieldNotFound = stderrors.New("field not found")

// Extract returns the value at path as a string. Strings are returned
// verbatim, other scalars in their JSON form, and objects or arrays as
// compact JSON. A missing field or a JSON null yields ErrFieldNotFound.
func Extract(data []byte, path string) (string, error) {
	var root interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&root); err != nil {
		return "", fmt.Errorf("decode structured output: %w", err)
	}

	current := root
	if path != "" && path != "." {
		for _, segment := range strings.Split(strings.TrimPrefix(path, "."), ".") {
			next, ok := step(current, segment)
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrFieldNotFound, path)
			}
			current = next
		}
	}

	switch v := current.(type) {
	case nil:
		return "", fmt.Errorf("%w: %s is null", ErrFieldNotFound, path)
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

func step(value interface{}, segment string) (interface{}, bool) {
	switch node := value.(type) {
	case map[string]interface{}:
		child, ok := node[segment]
		return child, ok
	case []interface{}:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, false
		}
		return node[idx], true
	default:
		return nil, false
	}
}
