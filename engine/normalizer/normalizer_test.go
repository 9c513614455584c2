package normalizer

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/chainview/chainview/engine/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pow2Minus1(bits uint) *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), bits)
	return v.Sub(v, big.NewInt(1))
}

func marshalString(t *testing.T, v any) string {
	t.Helper()
	b, err := Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestCanonicalizeInteger(t *testing.T) {
	t.Run("Should render boundary values exactly", func(t *testing.T) {
		tests := []struct {
			name     string
			input    value.Integer
			expected string
		}{
			{name: "zero", input: value.U32(0), expected: "0"},
			{name: "u32 max", input: value.U32(4294967295), expected: "4294967295"},
			{name: "u64 max", input: value.U64(18446744073709551615), expected: "18446744073709551615"},
			{
				name:     "u128 max",
				input:    value.U128(pow2Minus1(128)),
				expected: "340282366920938463463374607431768211455",
			},
			{
				name:     "u256 max",
				input:    value.U256(pow2Minus1(256)),
				expected: "115792089237316195423570985008687907853269984665640564039457584007913129639935",
			},
			{name: "i32 min", input: value.I32(-2147483648), expected: "-2147483648"},
			{name: "i64 max", input: value.I64(9223372036854775807), expected: "9223372036854775807"},
			{name: "i8 negative", input: value.I8(-1), expected: "-1"},
			{name: "u8", input: value.U8(255), expected: "255"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, CanonicalizeInteger(tt.input))
			})
		}
	})

	t.Run("Should decode raw two's complement storage at the declared width", func(t *testing.T) {
		n := value.Integer{Bits: 32, Signed: true, LE: []byte{0x00, 0x00, 0x00, 0x80}}
		assert.Equal(t, "-2147483648", CanonicalizeInteger(n))
		n.Signed = false
		assert.Equal(t, "2147483648", CanonicalizeInteger(n))
	})

	t.Run("Should decode compact encodings to their true magnitude", func(t *testing.T) {
		assert.Equal(t, "6074317682114550", CanonicalizeInteger(value.CompactOf(big.NewInt(6074317682114550))))
		assert.Equal(t, "1", CanonicalizeInteger(value.CompactRaw([]byte{0x04})))
		assert.Equal(t, "420420", CanonicalizeInteger(value.CompactRaw([]byte{0x12, 0xa9, 0x19, 0x00})))
	})
}

func TestEncodeBytes(t *testing.T) {
	t.Run("Should encode variable sequences at their length", func(t *testing.T) {
		assert.Equal(t, "0x0102030405", EncodeBytes(value.Bytes{Data: []byte{1, 2, 3, 4, 5}}))
		assert.Equal(t, "0x", EncodeBytes(value.Bytes{}))
		assert.Equal(t, "0xabcdef", EncodeBytes(value.Bytes{Data: []byte{0xab, 0xcd, 0xef}}))
	})

	t.Run("Should zero-pad fixed sequences to the declared length", func(t *testing.T) {
		assert.Equal(t, "0x01020000", EncodeBytes(value.Bytes{Data: []byte{1, 2}, Length: 4}))
		assert.Equal(t, "0x"+strings.Repeat("00", 32), EncodeBytes(value.Bytes{Length: 32}))
	})

	t.Run("Should ignore declared lengths above the cap", func(t *testing.T) {
		assert.Equal(t, "0x01", EncodeBytes(value.Bytes{Data: []byte{1}, Length: value.MaxBytesLength + 1}))
		assert.Equal(t, "0x", EncodeBytes(value.Bytes{Length: 1 << 62}))
	})
}

func TestNormalize_Leaves(t *testing.T) {
	t.Run("Should never reinterpret hex-looking text", func(t *testing.T) {
		assert.Equal(t, "40C0A7", Normalize("40C0A7"))
		assert.Equal(t, "0x40C0A7", Normalize("0x40C0A7"))
		assert.Equal(t, "40C0A7", Normalize(value.Text("40C0A7")))
		assert.Equal(t, "0x40C0A7", Normalize(value.Text("0x40C0A7")))
		assert.Equal(t, "00012", Normalize(value.Text("00012")))
	})

	t.Run("Should convert null and booleans", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
		assert.Nil(t, Normalize(value.Null{}))
		assert.Equal(t, true, Normalize(value.Bool(true)))
		assert.Equal(t, false, Normalize(false))
	})

	t.Run("Should encode raw bytes", func(t *testing.T) {
		assert.Equal(t, "0x0102030405", Normalize(value.Bytes{Data: []byte{1, 2, 3, 4, 5}}))
		assert.Equal(t, "0x0102030405", Normalize([]byte{1, 2, 3, 4, 5}))
	})

	t.Run("Should canonicalize plain numerics without float conversion", func(t *testing.T) {
		assert.Equal(t, "42", Normalize(42))
		assert.Equal(t, "-7", Normalize(int8(-7)))
		assert.Equal(t, "18446744073709551615", Normalize(uint64(18446744073709551615)))
		assert.Equal(t, "340282366920938463463374607431768211455", Normalize(pow2Minus1(128)))
		assert.Equal(t, "9007199254740993", Normalize(json.Number("9007199254740993")))
		assert.Equal(t, "1000", Normalize(json.Number("1e3")))
		assert.Equal(t, "1.5", Normalize(json.Number("1.50")))
		assert.Equal(t, "0.1", Normalize(0.1))
		assert.Equal(t, "1000000000000000000000", Normalize(1e21))
	})
}

func TestNormalize_Wrappers(t *testing.T) {
	t.Run("Should flatten options", func(t *testing.T) {
		assert.Nil(t, Normalize(value.None()))
		assert.Equal(t, "hi", Normalize(value.Some(value.Text("hi"))))
		assert.Nil(t, Normalize(value.Some(value.Null{})))
	})

	t.Run("Should render results as single-key objects", func(t *testing.T) {
		errRes := Normalize(value.Err(value.Text("error message")))
		assert.Equal(t, `{"Error":"error message"}`, marshalString(t, errRes))

		okRes := Normalize(value.Ok(value.U128(pow2Minus1(128))))
		assert.Equal(t, `{"Ok":"340282366920938463463374607431768211455"}`, marshalString(t, okRes))
	})

	t.Run("Should render variants keyed by their tag", func(t *testing.T) {
		open := Normalize(value.Enum("Open", value.U32(420420)))
		assert.Equal(t, `{"Open":"420420"}`, marshalString(t, open))

		closed := Normalize(value.Enum("Close", nil))
		assert.Equal(t, `{"Close":null}`, marshalString(t, closed))

		lower := Normalize(value.Enum("camelCase", value.Bool(true)))
		assert.Equal(t, `{"camelCase":true}`, marshalString(t, lower))
	})
}

func TestNormalize_Containers(t *testing.T) {
	t.Run("Should keep nested record shape and field order", func(t *testing.T) {
		rec := value.Struct(
			value.F("zeta", value.U64(1)),
			value.F("alpha", value.Struct(
				value.F("level2", value.Struct(
					value.F("level3", value.Struct(
						value.F("level4", value.Struct(
							value.F("amount", value.U128(pow2Minus1(128))),
							value.F("flag", value.Bool(false)),
						)),
					)),
				)),
			)),
			value.F("middle", value.Text("m")),
		)

		out := Normalize(rec)
		expected := `{"zeta":"1","alpha":{"level2":{"level3":{"level4":` +
			`{"amount":"340282366920938463463374607431768211455","flag":false}}}},"middle":"m"}`
		assert.Equal(t, expected, marshalString(t, out))
	})

	t.Run("Should rebuild nested tuples element-wise", func(t *testing.T) {
		tup := value.TupleOf(
			value.TupleOf(
				value.TupleOf(value.U32(0), value.U32(0)),
				value.U64(6074317682114550),
			),
			value.U32(0),
		)
		out := Normalize(tup)
		assert.Equal(t, []any{[]any{[]any{"0", "0"}, "6074317682114550"}, "0"}, out)
	})

	t.Run("Should keep sequence, fixed sequence and set order", func(t *testing.T) {
		assert.Equal(t, []any{"3", "1", "2"}, Normalize(value.Vec(value.U8(3), value.U8(1), value.U8(2))))
		fixed := value.FixedSequence{Items: []value.Value{value.Text("b"), value.Text("a")}, Length: 2}
		assert.Equal(t, []any{"b", "a"}, Normalize(fixed))
		set := value.Set{Items: []value.Value{value.U16(1), value.U16(5), value.U16(9)}}
		assert.Equal(t, []any{"1", "5", "9"}, Normalize(set))
		assert.Equal(t, []any{}, Normalize(value.Vec()))
	})

	t.Run("Should build map objects in iteration order with coerced keys", func(t *testing.T) {
		m := value.Map{Entries: []value.Entry{
			{Key: value.Text("b"), Value: value.U8(2)},
			{Key: value.U32(7), Value: value.Text("seven")},
			{Key: value.Bytes{Data: []byte{0xde, 0xad}}, Value: value.None()},
			{Key: value.TupleOf(value.U8(1), value.U8(2)), Value: value.Bool(true)},
			{Key: value.Bool(true), Value: value.Null{}},
		}}
		out := Normalize(m)
		assert.Equal(t,
			`{"b":"2","7":"seven","0xdead":null,"[\"1\",\"2\"]":true,"true":null}`,
			marshalString(t, out),
		)
	})

	t.Run("Should keep the first position for duplicate coerced keys", func(t *testing.T) {
		m := value.Map{Entries: []value.Entry{
			{Key: value.U8(1), Value: value.Text("first")},
			{Key: value.Text("x"), Value: value.Text("x")},
			{Key: value.Text("1"), Value: value.Text("second")},
		}}
		assert.Equal(t, `{"1":"second","x":"x"}`, marshalString(t, Normalize(m)))
	})

	t.Run("Should sort plain Go map keys", func(t *testing.T) {
		out := Normalize(map[string]any{"b": 1, "a": []any{uint8(2), "x"}})
		assert.Equal(t, `{"a":["2","x"],"b":"1"}`, marshalString(t, out))
	})
}

func TestNormalize_Passthrough(t *testing.T) {
	t.Run("Should return opaque nodes unchanged", func(t *testing.T) {
		op := value.Opaque{Raw: json.RawMessage(`{"custom":1}`)}
		out := Normalize(op)
		assert.Equal(t, op, out)
		assert.Equal(t, `{"custom":1}`, marshalString(t, out))
	})

	t.Run("Should return unknown Go values unchanged", func(t *testing.T) {
		type custom struct{ A int }
		c := custom{A: 1}
		assert.Equal(t, c, Normalize(c))
		assert.Equal(t, []any{c}, Normalize([]any{c}))
	})

	t.Run("Should keep malformed json numbers unchanged", func(t *testing.T) {
		assert.Equal(t, json.Number("abc"), Normalize(json.Number("abc")))
	})
}

func TestNormalize_Idempotence(t *testing.T) {
	t.Run("Should not change already normalized output", func(t *testing.T) {
		tree := value.Struct(
			value.F("id", value.U128(pow2Minus1(128))),
			value.F("hash", value.Bytes{Data: []byte{1, 2}, Length: 4}),
			value.F("status", value.Enum("Open", value.U32(9))),
			value.F("res", value.Err(value.Text("bad"))),
			value.F("items", value.Vec(value.Some(value.Text("hi")), value.None())),
			value.F("map", value.Map{Entries: []value.Entry{{Key: value.U8(1), Value: value.Text("a")}}}),
			value.F("raw", value.Opaque{Raw: "keep"}),
		)
		once := Normalize(tree)
		twice := Normalize(once)
		assert.Equal(t, marshalString(t, once), marshalString(t, twice))

		thrice := Normalize(twice)
		assert.Equal(t, marshalString(t, once), marshalString(t, thrice))
	})
}

func TestNormalizer_DepthGuard(t *testing.T) {
	nest := func(levels int) value.Value {
		var v value.Value = value.U8(1)
		for range levels {
			v = value.Vec(v)
		}
		return v
	}

	t.Run("Should replace too-deep subtrees with a truncation marker", func(t *testing.T) {
		n := New(Options{MaxDepth: 2})
		out, err := n.Normalize(nest(3))
		require.NoError(t, err)
		assert.Equal(t, `[[{"$truncated":"sequence"}]]`, marshalString(t, out))
	})

	t.Run("Should keep truncated output JSON-safe and idempotent", func(t *testing.T) {
		n := New(Options{MaxDepth: 1})
		tree := value.Vec(value.Vec(value.U64(7), value.Bytes{Data: []byte{1, 2}}))
		out, err := n.Normalize(tree)
		require.NoError(t, err)
		first := marshalString(t, out)
		assert.Equal(t, `[{"$truncated":"sequence"}]`, first)
		assert.NotContains(t, first, "Bits")

		var decoded any
		require.NoError(t, json.Unmarshal([]byte(first), &decoded))
		again, err := n.Normalize(decoded)
		require.NoError(t, err)
		assert.Equal(t, first, marshalString(t, again))
		assert.Equal(t, first, marshalString(t, Normalize(decoded)))
	})

	t.Run("Should fail in strict mode", func(t *testing.T) {
		n := New(Options{MaxDepth: 2, StrictDepth: true})
		_, err := n.Normalize(nest(3))
		assert.ErrorIs(t, err, ErrDepthExceeded)

		out, err := n.Normalize(nest(2))
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{"1"}}, out)
	})

	t.Run("Should use the default limit for non-positive depths", func(t *testing.T) {
		assert.Equal(t, DefaultMaxDepth, New(Options{MaxDepth: -1}).MaxDepth())
		out := Normalize(nest(100))
		for range 100 {
			list, ok := out.([]any)
			require.True(t, ok)
			out = list[0]
		}
		assert.Equal(t, "1", out)
	})
}
