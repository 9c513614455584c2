package scale

import "math/big"

// ByteWidth returns the storage width in bytes of an integer with the given bit width.
func ByteWidth(bits int) int {
	return (bits + 7) / 8
}

// DecodeFixed interprets le as a little-endian integer of the declared bit
// width. Input shorter than the width is zero-extended, longer input is
// truncated. When signed is set and the high bit of the width is set, the value
// is decoded as two's complement. A zero width means the width of le itself.
func DecodeFixed(le []byte, bits int, signed bool) *big.Int {
	if bits <= 0 {
		bits = len(le) * 8
	}
	width := ByteWidth(bits)
	if len(le) > width {
		le = le[:width]
	}
	v := fromLittleEndian(le)
	if bits%8 != 0 {
		v.And(v, mask(bits))
	}
	if signed && bits > 0 && v.Bit(bits-1) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	return v
}

// EncodeFixed returns the little-endian two's complement storage of v at the
// given bit width, reducing v modulo 2^bits.
func EncodeFixed(v *big.Int, bits int) []byte {
	m := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	r := new(big.Int).Mod(v, m)
	return toLittleEndian(r, ByteWidth(bits))
}

func mask(bits int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return m.Sub(m, big.NewInt(1))
}

func fromLittleEndian(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// toLittleEndian renders a non-negative v little-endian, padded to width bytes.
func toLittleEndian(v *big.Int, width int) []byte {
	be := v.Bytes()
	n := len(be)
	if width > n {
		n = width
	}
	le := make([]byte, n)
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}
