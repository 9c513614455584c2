// Package envelope reads a JSON description of a decoded value tree.
//
// A typed node is an object carrying a "type" member:
//
//	{"type": "u128", "value": "340282366920938463463374607431768211455"}
//	{"type": "i32", "scale": "0x00000080"}
//	{"type": "compact", "scale": "0x12a91900"}
//	{"type": "bytes", "value": "0x0102", "length": 32}
//	{"type": "struct", "fields": {"a": {...}, "b": {...}}}
//	{"type": "map", "entries": [{"key": {...}, "value": {...}}]}
//	{"type": "enum", "tag": "Open", "value": {...}}
//	{"type": "option", "value": {...}}
//	{"type": "result", "ok": {...}}
//
// Field and entry order follow document order. Untyped JSON maps onto the
// closest node: strings to text, booleans to bool, integer literals to signed
// integers, arrays to sequences and objects without a string "type" member to
// records. Unknown types and fractional numbers are kept as opaque raw JSON.
package envelope

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"github.com/chainview/chainview/engine/value"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tidwall/gjson"
)

const maxIntegerBits = 1024

var integerType = regexp.MustCompile(`^([ui])([0-9]+)$`)

// Parse reads one envelope document.
func Parse(raw []byte) (value.Value, error) {
	if !gjson.ValidBytes(raw) {
		return nil, newError("$", "malformed JSON")
	}
	return decode(gjson.ParseBytes(raw), "$")
}

// ParseString is Parse for string input.
func ParseString(raw string) (value.Value, error) {
	return Parse([]byte(raw))
}

func decode(res gjson.Result, path string) (value.Value, error) {
	switch res.Type {
	case gjson.Null:
		return value.Null{}, nil
	case gjson.True, gjson.False:
		return value.Bool(res.Bool()), nil
	case gjson.String:
		return value.Text(res.String()), nil
	case gjson.Number:
		return untypedNumber(res.Raw), nil
	}
	if res.IsArray() {
		items, err := decodeItems(res, path)
		if err != nil {
			return nil, err
		}
		return value.Sequence{Items: items}, nil
	}
	typ := res.Get("type")
	if typ.Type != gjson.String {
		return decodeFields(res, path)
	}
	return decodeTyped(typ.String(), res, path)
}

func decodeTyped(typ string, res gjson.Result, path string) (value.Value, error) {
	switch typ {
	case "null":
		return value.Null{}, nil
	case "bool":
		v := res.Get("value")
		if v.Type != gjson.True && v.Type != gjson.False {
			return nil, newError(path, "bool value must be true or false")
		}
		return value.Bool(v.Bool()), nil
	case "text", "str", "string":
		v := res.Get("value")
		if v.Type != gjson.String {
			return nil, newError(path, "text value must be a string")
		}
		return value.Text(v.String()), nil
	case "bytes":
		return decodeBytes(res, path)
	case "compact":
		return decodeCompact(res, path)
	case "vec", "sequence":
		items, err := decodeItems(res.Get("items"), path+".items")
		if err != nil {
			return nil, err
		}
		return value.Sequence{Items: items}, nil
	case "array":
		return decodeFixedSequence(res, path)
	case "tuple":
		items, err := decodeItems(res.Get("items"), path+".items")
		if err != nil {
			return nil, err
		}
		return value.Tuple{Items: items}, nil
	case "set":
		items, err := decodeItems(res.Get("items"), path+".items")
		if err != nil {
			return nil, err
		}
		return value.Set{Items: items}, nil
	case "map":
		return decodeMap(res, path)
	case "struct", "record":
		fields := res.Get("fields")
		if fields.Exists() && !fields.IsObject() {
			return nil, newError(path+".fields", "fields must be an object")
		}
		return decodeFields(fields, path+".fields")
	case "enum", "variant":
		return decodeVariant(res, path)
	case "option":
		return decodeOption(res, path)
	case "result":
		return decodeResult(res, path)
	}
	if m := integerType.FindStringSubmatch(typ); m != nil {
		bits, err := strconv.Atoi(m[2])
		if err != nil || bits <= 0 || bits > maxIntegerBits {
			return nil, newError(path, "unsupported integer width %q", typ)
		}
		return decodeInteger(res, path, bits, m[1] == "i")
	}
	return value.Opaque{Raw: json.RawMessage(res.Raw)}, nil
}

func decodeItems(res gjson.Result, path string) ([]value.Value, error) {
	if !res.Exists() {
		return []value.Value{}, nil
	}
	if !res.IsArray() {
		return nil, newError(path, "items must be an array")
	}
	arr := res.Array()
	items := make([]value.Value, len(arr))
	for i, el := range arr {
		v, err := decode(el, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func decodeFixedSequence(res gjson.Result, path string) (value.Value, error) {
	items, err := decodeItems(res.Get("items"), path+".items")
	if err != nil {
		return nil, err
	}
	length := len(items)
	if l := res.Get("length"); l.Exists() {
		length = int(l.Int())
		if length != len(items) {
			return nil, newError(path, "array declares length %d but has %d items", length, len(items))
		}
	}
	return value.FixedSequence{Items: items, Length: length}, nil
}

// decodeFields keeps the document order of the object's members.
func decodeFields(res gjson.Result, path string) (value.Value, error) {
	rec := value.Record{Fields: []value.Field{}}
	var err error
	res.ForEach(func(key, val gjson.Result) bool {
		var v value.Value
		v, err = decode(val, path+"."+key.String())
		if err != nil {
			return false
		}
		rec.Fields = append(rec.Fields, value.Field{Name: key.String(), Value: v})
		return true
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeMap(res gjson.Result, path string) (value.Value, error) {
	entries := res.Get("entries")
	m := value.Map{Entries: []value.Entry{}}
	if !entries.Exists() {
		return m, nil
	}
	if !entries.IsArray() {
		return nil, newError(path+".entries", "entries must be an array")
	}
	for i, e := range entries.Array() {
		epath := fmt.Sprintf("%s.entries[%d]", path, i)
		if !e.IsObject() || !e.Get("key").Exists() {
			return nil, newError(epath, "entry must be an object with a key")
		}
		k, err := decode(e.Get("key"), epath+".key")
		if err != nil {
			return nil, err
		}
		v, err := decode(e.Get("value"), epath+".value")
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, value.Entry{Key: k, Value: v})
	}
	return m, nil
}

func decodeVariant(res gjson.Result, path string) (value.Value, error) {
	tag := res.Get("tag")
	if tag.Type != gjson.String || tag.String() == "" {
		return nil, newError(path, "enum requires a non-empty tag")
	}
	payload := res.Get("value")
	if !payload.Exists() {
		return value.Variant{Tag: tag.String()}, nil
	}
	v, err := decode(payload, path+".value")
	if err != nil {
		return nil, err
	}
	return value.Variant{Tag: tag.String(), Payload: v}, nil
}

func decodeOption(res gjson.Result, path string) (value.Value, error) {
	inner := res.Get("value")
	if !inner.Exists() || inner.Type == gjson.Null {
		return value.None(), nil
	}
	v, err := decode(inner, path+".value")
	if err != nil {
		return nil, err
	}
	return value.Some(v), nil
}

func decodeResult(res gjson.Result, path string) (value.Value, error) {
	ok := res.Get("ok")
	failedKey := "err"
	failed := res.Get(failedKey)
	if !failed.Exists() {
		failedKey = "error"
		failed = res.Get(failedKey)
	}
	switch {
	case ok.Exists() && failed.Exists():
		return nil, newError(path, "result cannot be both ok and err")
	case ok.Exists():
		v, err := decode(ok, path+".ok")
		if err != nil {
			return nil, err
		}
		return value.Ok(v), nil
	case failed.Exists():
		v, err := decode(failed, path+"."+failedKey)
		if err != nil {
			return nil, err
		}
		return value.Err(v), nil
	}
	return nil, newError(path, "result requires ok or err")
}

func decodeBytes(res gjson.Result, path string) (value.Value, error) {
	var data []byte
	v := res.Get("value")
	switch {
	case !v.Exists():
		data = []byte{}
	case v.Type == gjson.String:
		b, err := hexutil.Decode(v.String())
		if err != nil {
			return nil, newError(path+".value", "bytes must be 0x-prefixed hex: %v", err)
		}
		data = b
	case v.IsArray():
		arr := v.Array()
		data = make([]byte, len(arr))
		for i, el := range arr {
			n := el.Int()
			if el.Type != gjson.Number || n < 0 || n > 255 || el.Raw != strconv.FormatInt(n, 10) {
				return nil, newError(fmt.Sprintf("%s.value[%d]", path, i), "octet must be an integer in 0..255")
			}
			data[i] = byte(n)
		}
	default:
		return nil, newError(path+".value", "bytes must be a hex string or an array of octets")
	}
	length := 0
	if l := res.Get("length"); l.Exists() {
		n := l.Int()
		if l.Type != gjson.Number || l.Raw != strconv.FormatInt(n, 10) {
			return nil, newError(path+".length", "length must be an integer")
		}
		if n < int64(len(data)) || n > value.MaxBytesLength {
			return nil, newError(path+".length", "length must be between %d and %d", len(data), value.MaxBytesLength)
		}
		length = int(n)
	}
	return value.Bytes{Data: data, Length: length}, nil
}

func decodeInteger(res gjson.Result, path string, bits int, signed bool) (value.Value, error) {
	if raw := res.Get("scale"); raw.Exists() {
		le, err := hexutil.Decode(raw.String())
		if err != nil {
			return nil, newError(path+".scale", "scale must be 0x-prefixed hex: %v", err)
		}
		return value.Integer{Bits: bits, Signed: signed, LE: le}, nil
	}
	n, err := decimalValue(res.Get("value"), path+".value")
	if err != nil {
		return nil, err
	}
	if !fits(n, bits, signed) {
		return nil, newError(path+".value", "%s does not fit in %d bits", n, bits)
	}
	if signed {
		return value.Int(bits, n), nil
	}
	return value.Uint(bits, n), nil
}

func decodeCompact(res gjson.Result, path string) (value.Value, error) {
	if raw := res.Get("scale"); raw.Exists() {
		enc, err := hexutil.Decode(raw.String())
		if err != nil {
			return nil, newError(path+".scale", "scale must be 0x-prefixed hex: %v", err)
		}
		return value.CompactRaw(enc), nil
	}
	n, err := decimalValue(res.Get("value"), path+".value")
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 {
		return nil, newError(path+".value", "compact integers are unsigned")
	}
	return value.CompactOf(n), nil
}

// decimalValue accepts a JSON integer literal or a base-10 string. Hex
// strings are rejected; raw storage belongs in the scale member.
func decimalValue(res gjson.Result, path string) (*big.Int, error) {
	var s string
	switch res.Type {
	case gjson.Number:
		s = res.Raw
	case gjson.String:
		s = res.String()
	default:
		return nil, newError(path, "integer requires a decimal value or a scale encoding")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, newError(path, "%q is not a base-10 integer", s)
	}
	return n, nil
}

func fits(n *big.Int, bits int, signed bool) bool {
	if !signed {
		return n.Sign() >= 0 && n.BitLen() <= bits
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	if n.Sign() >= 0 {
		return n.Cmp(limit) < 0
	}
	return n.Cmp(new(big.Int).Neg(limit)) >= 0
}

// untypedNumber maps a bare JSON number. Integer literals become signed
// integers wide enough to hold them; anything else stays raw.
func untypedNumber(raw string) value.Value {
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return value.Opaque{Raw: json.Number(raw)}
	}
	bits := 64
	for !fits(n, bits, true) {
		bits *= 2
	}
	return value.Int(bits, n)
}
