package kernel

import "github.com/ajroetker/go-highway/hwy"

// InclusiveScanOverGroup overwrites acc with its inclusive prefix scan under
// op, cooperatively across the group's lanes.
//
// Ranges up to WarpSize are handled by a single warp-level collective scan.
// Larger ranges use a reduce-then-fix-up scheme: every warp-sized window is
// scanned in place and its total recorded in the scratch's coarse array, the
// coarse array is scanned recursively through scratch.Next, and finally each
// element at index >= WarpSize receives the inclusive total of the preceding
// warp. Elements below one warp size never receive a coarse carry.
//
// scratch must come from NewScratch with a range of at least len(acc); a
// mis-sized scratch is a programmer error and panics.
func InclusiveScanOverGroup[T hwy.Lanes](g *Group, acc []T, scratch *Scratch[T], op Op[T]) {
	r := uint32(len(acc))
	if r <= WarpSize {
		warpScan(acc, op)
		return
	}

	warps := ceilDiv(r, WarpSize)
	if scratch == nil || uint32(len(scratch.Coarse)) < warps {
		panic("kernel: scan scratch is too small for the requested range")
	}
	coarse := scratch.Coarse[:warps]

	for w := uint32(0); w < warps; w++ {
		lo := w * WarpSize
		hi := min(lo+WarpSize, r)
		window := acc[lo:hi]
		warpScan(window, op)
		coarse[w] = window[len(window)-1]
	}

	InclusiveScanOverGroup(g, coarse, scratch.Next, op)

	g.DistributeFor(r, func(item uint32) {
		if item >= WarpSize {
			acc[item] = op.combine(acc[item], coarse[item/WarpSize-1])
		}
	})
}
