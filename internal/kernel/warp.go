package kernel

import "github.com/ajroetker/go-highway/hwy"

// warpScan overwrites a window of at most WarpSize elements with its
// inclusive scan under op. Padding a window at the end never influences the
// in-range elements, so callers may pass a short tail window as-is.
func warpScan[T hwy.Lanes](window []T, op Op[T]) {
	if op.summing {
		warpScanSum(window)
		return
	}
	for i := 1; i < len(window); i++ {
		window[i] = op.combine(window[i-1], window[i])
	}
}

// warpScanSum is the vectorized fast path for the addition operator:
// a Hillis-Steele scan per vector with a running carry across vectors,
// iterating hwy vectors over the warp window.
func warpScanSum[T hwy.Lanes](window []T) {
	lanes := hwy.MaxLanes[T]()
	var carry T
	i := 0

	if lanes >= 2 {
		for ; i+lanes <= len(window); i += lanes {
			v := scanVec(hwy.Load(window[i:]))
			v = hwy.Add(v, hwy.Set[T](carry))
			hwy.Store(v, window[i:])
			carry = hwy.GetLane(v, lanes-1)
		}
	}
	for ; i < len(window); i++ {
		carry += window[i]
		window[i] = carry
	}
}

// scanVec computes the inclusive prefix sum within one vector. SlideUpLanes
// fills vacated lanes with zero, the identity of addition.
func scanVec[T hwy.Lanes](v hwy.Vec[T]) hwy.Vec[T] {
	n := v.NumLanes()
	for shift := 1; shift < n; shift <<= 1 {
		v = hwy.Add(v, hwy.SlideUpLanes(v, shift))
	}
	return v
}
