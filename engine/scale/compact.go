// Package scale implements the integer subset of the SCALE codec used by
// Substrate-based chains: fixed-width little-endian integers and the compact
// variable-length integer encoding.
package scale

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrShortInput is returned when a compact encoding ends before its declared length.
	ErrShortInput = errors.New("scale: short compact input")
	// ErrNegativeCompact is returned when encoding a negative value as compact.
	ErrNegativeCompact = errors.New("scale: compact integers are unsigned")
	// ErrCompactOverflow is returned when a value needs more than 67 bytes.
	ErrCompactOverflow = errors.New("scale: value too large for compact encoding")
)

const (
	maxBigIntegerBytes = 67

	modeSingleByte = 0b00
	modeTwoByte    = 0b01
	modeFourByte   = 0b10
	modeBigInteger = 0b11
)

var (
	singleByteLimit = big.NewInt(1 << 6)
	twoByteLimit    = big.NewInt(1 << 14)
	fourByteLimit   = big.NewInt(1 << 30)
)

// DecodeCompact decodes a compact integer from the front of b and returns the
// value together with the number of bytes consumed.
func DecodeCompact(b []byte) (*big.Int, int, error) {
	if len(b) == 0 {
		return nil, 0, ErrShortInput
	}
	switch b[0] & 0b11 {
	case modeSingleByte:
		return big.NewInt(int64(b[0] >> 2)), 1, nil
	case modeTwoByte:
		if len(b) < 2 {
			return nil, 0, fmt.Errorf("%w: two-byte mode needs 2 bytes, got %d", ErrShortInput, len(b))
		}
		v := uint64(b[0]) | uint64(b[1])<<8
		return new(big.Int).SetUint64(v >> 2), 2, nil
	case modeFourByte:
		if len(b) < 4 {
			return nil, 0, fmt.Errorf("%w: four-byte mode needs 4 bytes, got %d", ErrShortInput, len(b))
		}
		v := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
		return new(big.Int).SetUint64(v >> 2), 4, nil
	default:
		n := int(b[0]>>2) + 4
		if len(b) < 1+n {
			return nil, 0, fmt.Errorf("%w: big-integer mode needs %d bytes, got %d", ErrShortInput, 1+n, len(b))
		}
		return fromLittleEndian(b[1 : 1+n]), 1 + n, nil
	}
}

// EncodeCompact returns the shortest compact encoding of v.
func EncodeCompact(v *big.Int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, ErrNegativeCompact
	}
	switch {
	case v.Cmp(singleByteLimit) < 0:
		return []byte{byte(v.Uint64()<<2) | modeSingleByte}, nil
	case v.Cmp(twoByteLimit) < 0:
		x := v.Uint64()<<2 | modeTwoByte
		return []byte{byte(x), byte(x >> 8)}, nil
	case v.Cmp(fourByteLimit) < 0:
		x := v.Uint64()<<2 | modeFourByte
		return []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}, nil
	}
	le := toLittleEndian(v, 0)
	if len(le) < 4 {
		le = append(le, make([]byte, 4-len(le))...)
	}
	if len(le) > maxBigIntegerBytes {
		return nil, ErrCompactOverflow
	}
	out := make([]byte, 0, 1+len(le))
	out = append(out, byte(len(le)-4)<<2|modeBigInteger)
	return append(out, le...), nil
}
