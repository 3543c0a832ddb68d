package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type leaf struct {
	path  string
	value string
}

// flattener walks a JSON document and emits one leaf per scalar value.
// Objects keep their encoded key order and become dot paths. Arrays are either
// kept whole as compact JSON text or expanded with their indexes as keys.
type flattener struct {
	expandArrays bool
	leaves       []leaf
}

func flattenValue(prefix string, v any, expandArrays bool) ([]leaf, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %q: %w", prefix, err)
	}
	f := &flattener{expandArrays: expandArrays}
	if err := f.walk(prefix, raw); err != nil {
		return nil, err
	}
	return f.leaves, nil
}

func (f *flattener) emit(path, value string) {
	f.leaves = append(f.leaves, leaf{path: path, value: value})
}

func (f *flattener) walk(path string, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		f.emit(path, "")
		return nil
	}

	switch raw[0] {
	case '{':
		return f.walkObject(path, raw)
	case '[':
		if f.expandArrays {
			return f.walkArray(path, raw)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return err
		}
		f.emit(path, buf.String())
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		f.emit(path, s)
	case 'n':
		f.emit(path, "")
	default:
		f.emit(path, string(raw))
	}
	return nil
}

func (f *flattener) walkObject(path string, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return err
	}

	empty := true
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var child json.RawMessage
		if err := dec.Decode(&child); err != nil {
			return err
		}
		if err := f.walk(joinPath(path, key), child); err != nil {
			return err
		}
		empty = false
	}
	if empty && path != "" {
		f.emit(path, "{}")
	}
	return nil
}

func (f *flattener) walkArray(path string, raw json.RawMessage) error {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		f.emit(path, "[]")
		return nil
	}
	for i, item := range items {
		if err := f.walk(joinPath(path, strconv.Itoa(i)), item); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
