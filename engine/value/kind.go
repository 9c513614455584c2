package value

// Kind identifies which alternative of the decoded value taxonomy a node is.
type Kind string

const (
	KindNull          Kind = "null"
	KindBool          Kind = "bool"
	KindRawBytes      Kind = "raw_bytes"
	KindText          Kind = "text"
	KindIntegerLike   Kind = "integer"
	KindOptionValue   Kind = "option"
	KindResultValue   Kind = "result"
	KindKeyedMap      Kind = "map"
	KindOrderedSet    Kind = "set"
	KindSequence      Kind = "sequence"
	KindFixedSequence Kind = "fixed_sequence"
	KindTuple         Kind = "tuple"
	KindRecord        Kind = "record"
	KindVariant       Kind = "variant"
	KindOpaque        Kind = "opaque"
)

func (k Kind) String() string {
	return string(k)
}

// IsContainer reports whether nodes of this kind carry child nodes.
func (k Kind) IsContainer() bool {
	switch k {
	case KindOptionValue, KindResultValue, KindKeyedMap, KindOrderedSet,
		KindSequence, KindFixedSequence, KindTuple, KindRecord, KindVariant:
		return true
	default:
		return false
	}
}
