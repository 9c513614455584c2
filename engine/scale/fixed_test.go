package scale

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFixed(t *testing.T) {
	t.Run("Should decode unsigned little-endian values", func(t *testing.T) {
		assert.Equal(t, "4294967295", DecodeFixed([]byte{0xff, 0xff, 0xff, 0xff}, 32, false).String())
		assert.Equal(t, "258", DecodeFixed([]byte{0x02, 0x01}, 16, false).String())
	})

	t.Run("Should apply two's complement when the high bit is set", func(t *testing.T) {
		assert.Equal(t, "-2147483648", DecodeFixed([]byte{0x00, 0x00, 0x00, 0x80}, 32, true).String())
		assert.Equal(t, "-1", DecodeFixed([]byte{0xff}, 8, true).String())
		assert.Equal(t, "127", DecodeFixed([]byte{0x7f}, 8, true).String())
	})

	t.Run("Should zero-extend short input and truncate long input", func(t *testing.T) {
		assert.Equal(t, "1", DecodeFixed([]byte{0x01}, 64, false).String())
		assert.Equal(t, "1", DecodeFixed([]byte{0x01, 0xff}, 8, false).String())
	})

	t.Run("Should use the input width when bits is zero", func(t *testing.T) {
		assert.Equal(t, "-1", DecodeFixed([]byte{0xff, 0xff}, 0, true).String())
	})
}

func TestEncodeFixed(t *testing.T) {
	t.Run("Should encode negatives as two's complement", func(t *testing.T) {
		assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80}, EncodeFixed(big.NewInt(-2147483648), 32))
		assert.Equal(t, []byte{0xff, 0xff}, EncodeFixed(big.NewInt(-1), 16))
	})

	t.Run("Should pad to the full width", func(t *testing.T) {
		assert.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, EncodeFixed(big.NewInt(5), 64))
	})

	t.Run("Should round trip through DecodeFixed", func(t *testing.T) {
		v := new(big.Int).Lsh(big.NewInt(1), 255)
		v.Neg(v)
		assert.Equal(t, v.String(), DecodeFixed(EncodeFixed(v, 256), 256, true).String())
	})
}
