// Package kernel holds the device-side primitives of the scan engine: the
// bounded work group, the warp-level collective scan, and the recursive
// group-local inclusive scan with its scratch sizing.
//
// A Group models one work-group of a fixed lane count executing a kernel
// instance. Lanes are iterated fold-major and lane-ascending, which is a
// valid schedule under the contract that lanes may run in any relative order
// between iteration boundaries.
package kernel

// WarpSize is the lane count of a warp, the unit over which the collective
// scan operates. LocalSize values must be a multiple of it.
const WarpSize = 32

// Group is a bounded work group: a fixed number of lanes identified by a
// group index. It owns no data; its lifetime is one kernel invocation.
type Group struct {
	index     uint32
	localSize uint32
}

// Warp identifies the sub-group context of a single item: the warp index
// within the group and the lane index within the warp.
type Warp struct {
	Index uint32
	Lane  uint32
}

// NewGroup constructs the group handle for one kernel instance.
// localSize must be a non-zero multiple of WarpSize.
func NewGroup(index, localSize uint32) *Group {
	if localSize == 0 || localSize%WarpSize != 0 {
		panic("kernel: group size must be a non-zero multiple of the warp size")
	}
	return &Group{index: index, localSize: localSize}
}

// Index returns the group's position in the kernel's group range.
func (g *Group) Index() uint32 { return g.index }

// LocalSize returns the group's lane count.
func (g *Group) LocalSize() uint32 { return g.localSize }

// DistributeFor invokes f once per logical item in [0, n), mapping items
// onto the group's lanes: lane t handles items t, t+LocalSize, t+2*LocalSize
// and so on, with only the first n%LocalSize lanes participating in the
// final partial fold.
//
// f may take any of the following forms, checked richest first:
//
//	func(item, fold uint32, g *Group, w Warp)
//	func(item, fold uint32, g *Group)
//	func(item, fold uint32)
//	func(item uint32)
//
// Any other signature is a programmer error and panics.
func (g *Group) DistributeFor(n uint32, f any) {
	call := g.dispatch(f)

	fullFolds := n / g.localSize
	for fold := uint32(0); fold < fullFolds; fold++ {
		for lane := uint32(0); lane < g.localSize; lane++ {
			call(fold*g.localSize+lane, fold)
		}
	}
	for lane := uint32(0); lane < n%g.localSize; lane++ {
		call(fullFolds*g.localSize+lane, fullFolds)
	}
}

// SingleItem runs f exactly once per group, on the first lane.
func (g *Group) SingleItem(f func()) {
	f()
}

func (g *Group) dispatch(f any) func(item, fold uint32) {
	switch fn := f.(type) {
	case func(item, fold uint32, g *Group, w Warp):
		return func(item, fold uint32) {
			lane := item % g.localSize
			fn(item, fold, g, Warp{Index: lane / WarpSize, Lane: lane % WarpSize})
		}
	case func(item, fold uint32, g *Group):
		return func(item, fold uint32) { fn(item, fold, g) }
	case func(item, fold uint32):
		return fn
	case func(item uint32):
		return func(item, _ uint32) { fn(item) }
	default:
		panic("kernel: unsupported DistributeFor callback signature")
	}
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
