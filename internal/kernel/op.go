package kernel

import (
	"math"

	"github.com/ajroetker/go-highway/hwy"
)

// Op is an associative binary operator together with its identity element.
// The identity is used to pad out-of-range lanes, so Combine(x, Identity())
// must equal x for every value the scan can encounter.
//
// Associativity is a hard precondition, not a checked invariant: the scan
// takes the last element of a scanned block as the block total and feeds it
// into the next hierarchy level, which is only correct for associative
// operators applied in scan order.
type Op[T hwy.Lanes] struct {
	combine  func(a, b T) T
	identity T
	summing  bool
}

// New builds an operator from an associative combine function and its
// identity element.
func New[T hwy.Lanes](combine func(a, b T) T, identity T) Op[T] {
	return Op[T]{combine: combine, identity: identity}
}

// Sum returns the addition operator. It carries a vectorized warp-scan fast
// path; prefer it over New with a hand-written add.
func Sum[T hwy.Lanes]() Op[T] {
	return Op[T]{
		combine: func(a, b T) T { return a + b },
		summing: true,
	}
}

// Maximum returns the max operator for the built-in numeric types.
func Maximum[T hwy.Lanes]() Op[T] {
	return Op[T]{
		combine: func(a, b T) T {
			if a > b {
				return a
			}
			return b
		},
		identity: lowest[T](),
	}
}

// Combine applies the operator to a pair of values.
func (op Op[T]) Combine(a, b T) T { return op.combine(a, b) }

// Identity returns the operator's identity element.
func (op Op[T]) Identity() T { return op.identity }

// lowest returns the smallest representable value of T, the identity of max.
// Named types fall back to the zero value.
func lowest[T hwy.Lanes]() T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = math.MinInt8
	case *int16:
		*p = math.MinInt16
	case *int32:
		*p = math.MinInt32
	case *int64:
		*p = math.MinInt64
	case *float32:
		*p = float32(math.Inf(-1))
	case *float64:
		*p = math.Inf(-1)
	}
	return v // unsigned types: zero
}
