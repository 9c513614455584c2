package normalizer

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the normalized form of records, maps, variants and results: a
// string-keyed map that remembers insertion order and marshals in that order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// ObjectOf builds an Object from alternating key/value arguments. It is meant
// for literals in callers and tests; a trailing key without a value is ignored.
func ObjectOf(kv ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		o.Set(k, kv[i+1])
	}
	return o
}

// Marshal serializes a normalized tree as compact JSON, keeping object key
// order and leaving HTML characters unescaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
