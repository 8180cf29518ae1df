// Package extent carries the fixed-dimension array shapes exchanged between
// the host API and the device layer, plus the component-wise casts that
// bridge the integer types the two sides use.
package extent

import "fmt"

// MaxDims is the highest supported dimensionality.
const MaxDims = 3

// Integer covers the coordinate component types used across the codebase.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64
}

// Extent is the shape of an array of up to MaxDims dimensions.
type Extent struct {
	dims int
	e    [MaxDims]uint64
}

// Of builds an extent from its components.
func Of(components ...uint64) Extent {
	if len(components) == 0 || len(components) > MaxDims {
		panic(fmt.Sprintf("extent: dimensionality %d out of range", len(components)))
	}
	var ext Extent
	ext.dims = len(components)
	copy(ext.e[:], components)
	return ext
}

// Dims returns the dimensionality.
func (e Extent) Dims() int { return e.dims }

// At returns component i.
func (e Extent) At(i int) uint64 {
	if i < 0 || i >= e.dims {
		panic(fmt.Sprintf("extent: component %d out of %d", i, e.dims))
	}
	return e.e[i]
}

// NumElements returns the product of all components.
func (e Extent) NumElements() uint64 {
	n := uint64(1)
	for i := range e.dims {
		n *= e.e[i]
	}
	return n
}

func (e Extent) String() string {
	s := "["
	for i := range e.dims {
		if i > 0 {
			s += "x"
		}
		s += fmt.Sprint(e.e[i])
	}
	return s + "]"
}

// Cast converts the extent into a slice of another component type,
// component-wise. A pure structural copy: no bounds checks, no rounding.
func Cast[U Integer](e Extent) []U {
	out := make([]U, e.dims)
	for i := range e.dims {
		out[i] = U(e.e[i])
	}
	return out
}

// FromSlice converts a coordinate slice into an Extent, component-wise.
func FromSlice[T Integer](components []T) Extent {
	if len(components) == 0 || len(components) > MaxDims {
		panic(fmt.Sprintf("extent: dimensionality %d out of range", len(components)))
	}
	var ext Extent
	ext.dims = len(components)
	for i, c := range components {
		ext.e[i] = uint64(c)
	}
	return ext
}
