package normalizer

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/chainview/chainview/engine/value"
)

const (
	okKey    = "Ok"
	errorKey = "Error"
)

func (n *Normalizer) rebuild(kind value.Kind, node any, depth int) (any, error) {
	switch kind {
	case value.KindNull:
		return nil, nil
	case value.KindBool:
		return normalizeBool(node), nil
	case value.KindRawBytes:
		return normalizeBytes(node), nil
	case value.KindText:
		return normalizeText(node), nil
	case value.KindIntegerLike:
		return normalizeInteger(node), nil
	case value.KindOptionValue:
		return n.option(node.(value.Option), depth)
	case value.KindResultValue:
		return n.result(node.(value.Result), depth)
	case value.KindKeyedMap:
		return n.keyedMap(node.(value.Map), depth)
	case value.KindOrderedSet:
		return n.list(node.(value.Set).Items, depth)
	case value.KindSequence:
		if plain, ok := node.([]any); ok {
			return n.plainList(plain, depth)
		}
		return n.list(node.(value.Sequence).Items, depth)
	case value.KindFixedSequence:
		return n.list(node.(value.FixedSequence).Items, depth)
	case value.KindTuple:
		return n.list(node.(value.Tuple).Items, depth)
	case value.KindRecord:
		return n.record(node, depth)
	case value.KindVariant:
		return n.variant(node.(value.Variant), depth)
	default:
		return node, nil
	}
}

func normalizeBool(node any) bool {
	if b, ok := node.(value.Bool); ok {
		return bool(b)
	}
	return node.(bool)
}

func normalizeText(node any) string {
	if s, ok := node.(value.Text); ok {
		return string(s)
	}
	return node.(string)
}

func normalizeBytes(node any) string {
	if b, ok := node.(value.Bytes); ok {
		return EncodeBytes(b)
	}
	return EncodeBytes(value.Bytes{Data: node.([]byte)})
}

func normalizeInteger(node any) any {
	if i, ok := node.(value.Integer); ok {
		return CanonicalizeInteger(i)
	}
	if s, ok := canonicalizeNumber(node); ok {
		return s
	}
	return node
}

func (n *Normalizer) option(o value.Option, depth int) (any, error) {
	if o.Inner == nil {
		return nil, nil
	}
	return n.walk(o.Inner, depth+1)
}

func (n *Normalizer) result(r value.Result, depth int) (any, error) {
	payload, err := n.walk(r.Payload, depth+1)
	if err != nil {
		return nil, err
	}
	key := errorKey
	if r.Ok {
		key = okKey
	}
	return ObjectOf(key, payload), nil
}

func (n *Normalizer) variant(v value.Variant, depth int) (any, error) {
	obj := NewObject()
	if v.Payload == nil {
		obj.Set(v.Tag, nil)
		return obj, nil
	}
	payload, err := n.walk(v.Payload, depth+1)
	if err != nil {
		return nil, err
	}
	obj.Set(v.Tag, payload)
	return obj, nil
}

func (n *Normalizer) list(items []value.Value, depth int) (any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		v, err := n.walk(item, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (n *Normalizer) plainList(items []any, depth int) (any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		v, err := n.walk(item, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (n *Normalizer) record(node any, depth int) (any, error) {
	obj := NewObject()
	switch r := node.(type) {
	case value.Record:
		for _, f := range r.Fields {
			v, err := n.walk(f.Value, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(f.Name, v)
		}
	case *Object:
		for pair := r.Oldest(); pair != nil; pair = pair.Next() {
			v, err := n.walk(pair.Value, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(pair.Key, v)
		}
	case map[string]any:
		// Go maps have no order; sorted keys keep the output deterministic.
		for _, k := range slices.Sorted(maps.Keys(r)) {
			v, err := n.walk(r[k], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		}
	}
	return obj, nil
}

func (n *Normalizer) keyedMap(m value.Map, depth int) (any, error) {
	obj := NewObject()
	for _, e := range m.Entries {
		k, err := n.walk(e.Key, depth+1)
		if err != nil {
			return nil, err
		}
		v, err := n.walk(e.Value, depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(keyString(k), v)
	}
	return obj, nil
}

// keyString coerces a normalized map key to an object key. Text keys are used
// as-is; other keys use their normalized representation, composite keys as
// compact JSON.
func keyString(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	}
	b, err := Marshal(k)
	if err != nil {
		return fmt.Sprint(k)
	}
	return string(b)
}
