package normalizer

import (
	"github.com/chainview/chainview/engine/value"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EncodeBytes renders a byte sequence as lowercase 0x-prefixed hex. Fixed
// sequences are rendered at their declared length, zero-padding unset
// trailing bytes; variable sequences at their actual length. Declared lengths
// above value.MaxBytesLength are ignored.
func EncodeBytes(b value.Bytes) string {
	data := b.Data
	if b.Length > len(data) && b.Length <= value.MaxBytesLength {
		padded := make([]byte, b.Length)
		copy(padded, data)
		data = padded
	}
	return hexutil.Encode(data)
}
