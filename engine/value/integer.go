package value

import (
	"math/big"

	"github.com/chainview/chainview/engine/scale"
)

// Uint returns an unsigned Integer of the given width holding v.
// Values outside the width wrap modulo 2^bits.
func Uint(bits int, v *big.Int) Integer {
	return Integer{Bits: bits, LE: scale.EncodeFixed(v, bits)}
}

// Int returns a signed Integer of the given width holding v in two's complement.
func Int(bits int, v *big.Int) Integer {
	return Integer{Bits: bits, Signed: true, LE: scale.EncodeFixed(v, bits)}
}

// CompactOf returns a compact-encoded unsigned Integer holding v. Negative
// values cannot be compact encoded and yield a fixed u128 instead.
func CompactOf(v *big.Int) Integer {
	enc, err := scale.EncodeCompact(v)
	if err != nil {
		return Uint(128, v)
	}
	return Integer{Bits: 128, Compact: true, LE: enc}
}

// CompactRaw wraps an already compact-encoded byte string.
func CompactRaw(enc []byte) Integer {
	return Integer{Bits: 128, Compact: true, LE: enc}
}

func U8(v uint8) Integer   { return Uint(8, new(big.Int).SetUint64(uint64(v))) }
func U16(v uint16) Integer { return Uint(16, new(big.Int).SetUint64(uint64(v))) }
func U32(v uint32) Integer { return Uint(32, new(big.Int).SetUint64(uint64(v))) }
func U64(v uint64) Integer { return Uint(64, new(big.Int).SetUint64(v)) }
func I8(v int8) Integer    { return Int(8, big.NewInt(int64(v))) }
func I16(v int16) Integer  { return Int(16, big.NewInt(int64(v))) }
func I32(v int32) Integer  { return Int(32, big.NewInt(int64(v))) }
func I64(v int64) Integer  { return Int(64, big.NewInt(v)) }

// U128 and U256 take the value as a big integer.
func U128(v *big.Int) Integer { return Uint(128, v) }
func U256(v *big.Int) Integer { return Uint(256, v) }
func I128(v *big.Int) Integer { return Int(128, v) }
func I256(v *big.Int) Integer { return Int(256, v) }

// Big returns the integer's true value. Compact encodings are decoded to their
// magnitude; a malformed compact encoding falls back to reading the stored
// bytes as an unsigned little-endian integer.
func (i Integer) Big() *big.Int {
	if i.Compact {
		if v, _, err := scale.DecodeCompact(i.LE); err == nil {
			return v
		}
		return scale.DecodeFixed(i.LE, 0, false)
	}
	return scale.DecodeFixed(i.LE, i.Bits, i.Signed)
}
