package normalizer

import (
	"encoding/json"
	"math"
	"math/big"

	"github.com/chainview/chainview/engine/value"
	"github.com/shopspring/decimal"
)

// Classify reports the kind of a single node. It accepts decoded value nodes
// as well as plain JSON-like Go values and never inspects or mutates children.
//
// Decoded nodes map one-to-one onto their kind. Plain values are resolved in
// priority order: absence, boolean, raw bytes, text, numerics, then lists and
// string-keyed maps. Anything else is opaque.
func Classify(node any) value.Kind {
	switch n := node.(type) {
	case nil:
		return value.KindNull
	case value.Null:
		return value.KindNull
	case value.Bool, bool:
		return value.KindBool
	case value.Bytes, []byte:
		return value.KindRawBytes
	case value.Text, string:
		return value.KindText
	case value.Integer:
		return value.KindIntegerLike
	case value.Option:
		return value.KindOptionValue
	case value.Result:
		return value.KindResultValue
	case value.Map:
		return value.KindKeyedMap
	case value.Set:
		return value.KindOrderedSet
	case value.Sequence, []any:
		return value.KindSequence
	case value.FixedSequence:
		return value.KindFixedSequence
	case value.Tuple:
		return value.KindTuple
	case value.Record, map[string]any:
		return value.KindRecord
	case *Object:
		if n == nil {
			return value.KindNull
		}
		return value.KindRecord
	case value.Variant:
		return value.KindVariant
	case value.Opaque:
		return value.KindOpaque
	}
	return classifyNumeric(node)
}

// classifyNumeric recognizes the plain Go numeric types. Only structurally
// numeric values qualify; strings never do, whatever they look like.
func classifyNumeric(node any) value.Kind {
	switch n := node.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr, big.Int:
		return value.KindIntegerLike
	case *big.Int:
		if n == nil {
			return value.KindNull
		}
		return value.KindIntegerLike
	case json.Number:
		if _, err := decimal.NewFromString(string(n)); err != nil {
			return value.KindOpaque
		}
		return value.KindIntegerLike
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return value.KindOpaque
		}
		return value.KindIntegerLike
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return value.KindOpaque
		}
		return value.KindIntegerLike
	}
	return value.KindOpaque
}
