// Package style declares what can be styled: value kinds, properties and
// selectors, and the registry tying them together.
package style

//go:generate go tool go-enum --names --values

// Category of a property value. The set is closed, each kind has its own
// value type implementing Value.
// ENUM(color, dimension, alignment, fontWeight, fontFamily, url)
type Kind int

// Unit of a dimension value.
// ENUM(px, em, rem, percent=%)
type Unit string

// Text alignment keyword.
// ENUM(left, right, center, justify, inherit)
type Alignment string
