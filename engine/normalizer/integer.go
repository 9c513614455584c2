package normalizer

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/chainview/chainview/engine/value"
	"github.com/shopspring/decimal"
)

// CanonicalizeInteger renders an integer node as a canonical base-10 string:
// no leading zeros, a leading '-' for negatives, no exponent. The value is
// decoded at its declared width and signedness; compact encodings are decoded
// to their magnitude first.
func CanonicalizeInteger(n value.Integer) string {
	return n.Big().String()
}

// canonicalizeNumber renders a plain Go numeric. Integers go through strconv
// or math/big, so they never touch floating point. json.Number and floats are
// rendered by shopspring/decimal as exact decimal strings without exponent.
func canonicalizeNumber(node any) (string, bool) {
	switch n := node.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case uintptr:
		return strconv.FormatUint(uint64(n), 10), true
	case *big.Int:
		return n.String(), true
	case big.Int:
		return n.String(), true
	case json.Number:
		d, err := decimal.NewFromString(string(n))
		if err != nil {
			return "", false
		}
		return d.String(), true
	case float64:
		return decimal.NewFromFloat(n).String(), true
	case float32:
		return decimal.NewFromFloat32(n).String(), true
	}
	return "", false
}
