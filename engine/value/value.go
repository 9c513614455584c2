// Package value defines the decoded chain value tree handed to the normalizer.
//
// Value is a closed sum type: only the types declared in this package
// implement it. Producers (codec adapters, the JSON envelope reader) build the
// tree once; consumers switch exhaustively on the concrete type.
package value

import "encoding/json"

// MaxBytesLength caps the declared length of a fixed byte sequence.
const MaxBytesLength = 1 << 20

// Value is one node of a decoded value tree.
type Value interface {
	Kind() Kind
	sealed()
}

type (
	// Null is the absence marker.
	Null struct{}

	// Bool is a boolean leaf.
	Bool bool

	// Text is a UTF-8 string leaf. Its content is never interpreted.
	Text string

	// Integer is an arbitrary-width integer. LE holds the little-endian two's
	// complement storage of the declared width, or a SCALE compact encoding
	// when Compact is set. Bits is the declared type width and is independent
	// of the encoded length for compact values.
	Integer struct {
		Bits    int
		Signed  bool
		Compact bool
		LE      []byte
	}

	// Bytes is a raw octet sequence. A non-zero Length marks a fixed-length
	// sequence of that declared size, at most MaxBytesLength.
	Bytes struct {
		Data   []byte
		Length int
	}

	// Sequence is a variable-length homogeneous list.
	Sequence struct {
		Items []Value
	}

	// FixedSequence is a list with a declared length.
	FixedSequence struct {
		Items  []Value
		Length int
	}

	// Tuple is a fixed-arity heterogeneous list.
	Tuple struct {
		Items []Value
	}

	// Set holds its members in the producer's natural order.
	Set struct {
		Items []Value
	}

	// Entry is one key/value pair of a Map.
	Entry struct {
		Key   Value
		Value Value
	}

	// Map holds its entries in the producer's iteration order.
	Map struct {
		Entries []Entry
	}

	// Field is one named member of a Record.
	Field struct {
		Name  string
		Value Value
	}

	// Record is a named-field struct in declared field order.
	Record struct {
		Fields []Field
	}

	// Variant is a tagged union with one active alternative. A nil Payload
	// means the alternative carries no data.
	Variant struct {
		Tag     string
		Payload Value
	}

	// Option wraps an optional value; a nil Inner means None.
	Option struct {
		Inner Value
	}

	// Result wraps either a success or an error payload.
	Result struct {
		Ok      bool
		Payload Value
	}

	// Opaque carries a shape the producer could not map onto the taxonomy.
	// It is passed through untouched.
	Opaque struct {
		Raw any
	}
)

func (Null) Kind() Kind          { return KindNull }
func (Bool) Kind() Kind          { return KindBool }
func (Text) Kind() Kind          { return KindText }
func (Integer) Kind() Kind       { return KindIntegerLike }
func (Bytes) Kind() Kind         { return KindRawBytes }
func (Sequence) Kind() Kind      { return KindSequence }
func (FixedSequence) Kind() Kind { return KindFixedSequence }
func (Tuple) Kind() Kind         { return KindTuple }
func (Set) Kind() Kind           { return KindOrderedSet }
func (Map) Kind() Kind           { return KindKeyedMap }
func (Record) Kind() Kind        { return KindRecord }
func (Variant) Kind() Kind       { return KindVariant }
func (Option) Kind() Kind        { return KindOptionValue }
func (Result) Kind() Kind        { return KindResultValue }
func (Opaque) Kind() Kind        { return KindOpaque }

func (Null) sealed()          {}
func (Bool) sealed()          {}
func (Text) sealed()          {}
func (Integer) sealed()       {}
func (Bytes) sealed()         {}
func (Sequence) sealed()      {}
func (FixedSequence) sealed() {}
func (Tuple) sealed()         {}
func (Set) sealed()           {}
func (Map) sealed()           {}
func (Record) sealed()        {}
func (Variant) sealed()       {}
func (Option) sealed()        {}
func (Result) sealed()        {}
func (Opaque) sealed()        {}

// Some returns a present Option.
func Some(v Value) Option {
	return Option{Inner: v}
}

// None returns an absent Option.
func None() Option {
	return Option{}
}

// Ok returns a success Result.
func Ok(v Value) Result {
	return Result{Ok: true, Payload: v}
}

// Err returns an error Result.
func Err(v Value) Result {
	return Result{Ok: false, Payload: v}
}

// Enum returns a Variant with the given tag and optional payload.
func Enum(tag string, payload Value) Variant {
	return Variant{Tag: tag, Payload: payload}
}

// Vec returns a Sequence of the given items.
func Vec(items ...Value) Sequence {
	return Sequence{Items: items}
}

// TupleOf returns a Tuple of the given items.
func TupleOf(items ...Value) Tuple {
	return Tuple{Items: items}
}

// Struct returns a Record with fields in the given order.
func Struct(fields ...Field) Record {
	return Record{Fields: fields}
}

// F is shorthand for a Record field.
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// MarshalJSON renders the passthrough payload as-is.
func (o Opaque) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Raw)
}
