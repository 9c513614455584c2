// Package normalizer turns decoded chain value trees into plain JSON-safe
// trees made only of nil, bool, string, []any and *Object.
//
// Integers become exact base-10 strings, raw bytes become 0x-prefixed hex,
// wrappers and containers are rebuilt from their normalized children in their
// original order. Shapes the normalizer does not recognize are returned
// unchanged. Normalizing an already normalized tree is a no-op.
package normalizer

import (
	"errors"
	"fmt"

	"github.com/chainview/chainview/engine/value"
)

// DefaultMaxDepth bounds container nesting when no limit is configured.
const DefaultMaxDepth = 512

// ErrDepthExceeded is returned in strict mode when the input nests deeper than
// the configured limit.
var ErrDepthExceeded = errors.New("value tree exceeds maximum nesting depth")

// TruncatedKey names the single member of the object emitted in place of a
// container nested past the depth limit. Its value is the container kind.
const TruncatedKey = "$truncated"

// Options controls the recursion guard.
type Options struct {
	// MaxDepth is the number of nested container levels that are rebuilt.
	// Zero or negative selects DefaultMaxDepth.
	MaxDepth int
	// StrictDepth makes Normalize fail with ErrDepthExceeded instead of
	// replacing the too-deep subtree with a TruncatedKey marker.
	StrictDepth bool
}

// Normalizer is stateless apart from its options and may be shared between
// goroutines.
type Normalizer struct {
	maxDepth int
	strict   bool
}

// New returns a Normalizer with the given options.
func New(opts Options) *Normalizer {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Normalizer{maxDepth: depth, strict: opts.StrictDepth}
}

var defaultNormalizer = New(Options{})

// Normalize normalizes node with the default options. It never fails: subtrees
// nested beyond DefaultMaxDepth are passed through unchanged.
func Normalize(node any) any {
	out, _ := defaultNormalizer.Normalize(node)
	return out
}

// MaxDepth returns the configured nesting limit.
func (n *Normalizer) MaxDepth() int {
	return n.maxDepth
}

// Normalize converts node into its plain JSON form. The only possible error is
// ErrDepthExceeded, and only in strict mode.
func (n *Normalizer) Normalize(node any) (any, error) {
	return n.walk(node, 0)
}

func (n *Normalizer) walk(node any, depth int) (any, error) {
	kind := Classify(node)
	if kind.IsContainer() && depth >= n.maxDepth {
		if n.strict {
			return nil, fmt.Errorf("%w: limit %d", ErrDepthExceeded, n.maxDepth)
		}
		if isTruncated(node) {
			return node, nil
		}
		return truncated(kind), nil
	}
	return n.rebuild(kind, node, depth)
}

// truncated stands in for a container cut off by the depth guard.
func truncated(kind value.Kind) value.Opaque {
	return value.Opaque{Raw: ObjectOf(TruncatedKey, kind.String())}
}

func isTruncated(node any) bool {
	var marker any
	switch m := node.(type) {
	case map[string]any:
		if len(m) != 1 {
			return false
		}
		marker = m[TruncatedKey]
	case *Object:
		if m == nil || m.Len() != 1 {
			return false
		}
		marker, _ = m.Get(TruncatedKey)
	default:
		return false
	}
	_, ok := marker.(string)
	return ok
}
