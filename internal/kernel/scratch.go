package kernel

import "github.com/ajroetker/go-highway/hwy"

// Scratch is the per-group scratch storage required by
// InclusiveScanOverGroup for a given range: one coarse slot per warp of the
// range, plus the scratch for the reduced ceilDiv(range, WarpSize)-sized
// sub-problem. A range that fits in a single warp needs no scratch at all,
// so the chain terminates with nil.
//
// The total footprint is O(range/(WarpSize-1)) elements, shrinking
// geometrically per level.
type Scratch[T hwy.Lanes] struct {
	Coarse []T
	Next   *Scratch[T]
}

// NewScratch allocates the full scratch chain for a scan over r elements.
func NewScratch[T hwy.Lanes](r uint32) *Scratch[T] {
	if r <= WarpSize {
		return nil
	}
	n := ceilDiv(r, WarpSize)
	return &Scratch[T]{
		Coarse: make([]T, n),
		Next:   NewScratch[T](n),
	}
}

// Depth reports the number of scratch levels in the chain.
func (s *Scratch[T]) Depth() int {
	if s == nil {
		return 0
	}
	return 1 + s.Next.Depth()
}
