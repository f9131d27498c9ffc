// Package shape describes the structural wrapper around a leaf kind: a
// parameter is a single value, a present-optional, or one of three
// collection forms built from repeated tokens.
package shape

import "github.com/vk/cmdbind/internal/kind"

// Shape is the structural classification of a parameter's value.
type Shape int

const (
	// Scalar is exactly one value.
	Scalar Shape = iota
	// Optional is exactly one value, wrapped so callers can distinguish
	// "bound" from "never supplied".
	Optional
	// List is an ordered sequence preserving token order.
	List
	// Set removes duplicate constructed values, keeping first occurrences.
	Set
	// Bag is a multiset: every constructed value, duplicates included.
	Bag
)

// String returns the keyword used in type expressions.
func (s Shape) String() string {
	switch s {
	case Scalar:
		return "scalar"
	case Optional:
		return "optional"
	case List:
		return "list"
	case Set:
		return "set"
	case Bag:
		return "bag"
	default:
		return "unknown"
	}
}

// IsContainer reports whether the shape is built from zero or more tokens
// rather than exactly one.
func (s Shape) IsContainer() bool {
	return s == List || s == Set || s == Bag
}

// Descriptor pairs a shape with the leaf kind of its elements.
//
// Elem is always a leaf: optionality applies only at the outermost shape,
// and containers of containers are rejected when the descriptor is parsed.
type Descriptor struct {
	Shape Shape
	Elem  kind.Kind
}
