// Package scan computes inclusive prefix scans over arrays far larger than
// one work group by chaining bounded-size reduction and expansion kernels
// through a hierarchy of intermediate buffers.
package scan

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/kernel"
)

const (
	// Granularity is the default block size: the number of elements one
	// group scans per hierarchy level.
	Granularity = 512

	// LocalSize is the lane count of the groups launched by both phases.
	LocalSize = 256
)

// Chain is the ordered set of intermediate buffers one hierarchical scan
// needs for a given input size. Level sizes shrink by the granularity factor
// until a single element remains; each buffer is rounded up to a granularity
// multiple so every group scans a full block. A chain may be reused across
// scans of the same shape, but never concurrently.
type Chain[T hwy.Lanes] struct {
	levels      []*device.Buffer[T]
	granularity uint32
}

// Levels returns the number of intermediate buffers.
func (c *Chain[T]) Levels() int { return len(c.levels) }

// Granularity returns the block size the chain was built for.
func (c *Chain[T]) Granularity() uint32 { return c.granularity }

// LevelSize returns the element count of intermediate buffer i.
func (c *Chain[T]) LevelSize(i int) int { return c.levels[i].Len() }

// Allocate builds the intermediate buffer chain for scanning n elements
// with the given granularity. n must be a multiple of the granularity;
// below this entry point the divisibility contract is assumed, not checked.
func Allocate[T hwy.Lanes](d *device.Device, n, granularity uint32) (*Chain[T], error) {
	if granularity < 2 && n > 1 {
		return nil, fmt.Errorf("scan: granularity %d cannot reduce %d elements", granularity, n)
	}
	if granularity > 0 && n%granularity != 0 {
		return nil, fmt.Errorf("scan: input size %d is not a multiple of granularity %d", n, granularity)
	}

	c := &Chain[T]{granularity: granularity}
	for elems := n; elems > 1; {
		elems = ceilDiv(elems, granularity)
		c.levels = append(c.levels, device.NewBuffer[T](d, int(roundUp(elems, granularity))))
	}
	return c, nil
}

// Hierarchical overwrites inout with its inclusive prefix scan under op.
//
// The reduction phase walks the chain upward: every granularity-sized block
// of the level input is scanned in place by one group, and the block's last
// element, its total, is written to the corresponding slot one level up.
// The expansion phase walks back down: every block except the first combines
// in the already-final inclusive total of the preceding block, read from the
// next-smaller buffer. Both phases submit one profiled command group per
// level; queue order serializes the levels.
func Hierarchical[T hwy.Lanes](q *device.Queue, inout *device.Buffer[T], c *Chain[T], op kernel.Op[T]) {
	g := c.granularity

	for i := range c.levels {
		big := inout
		if i > 0 {
			big = c.levels[i-1]
		}
		bigData := big.Data()
		smallData := c.levels[i].Data()
		groups := ceilDiv(uint32(big.Len()), g)

		label := fmt.Sprintf("hierarchical_inclusive_scan reduce %d", i)
		device.SubmitAndProfile(q, label, func(h *device.Handler) {
			h.Parallel(int(groups), LocalSize, func(grp *kernel.Group) {
				block := bigData[grp.Index()*g : (grp.Index()+1)*g]
				scratch := kernel.NewScratch[T](g)
				kernel.InclusiveScanOverGroup(grp, block, scratch, op)
				grp.SingleItem(func() {
					smallData[grp.Index()] = block[g-1]
				})
			})
		})
	}

	for i := len(c.levels) - 2; i >= 0; i-- {
		big := inout
		if i > 0 {
			big = c.levels[i-1]
		}
		bigData := big.Data()
		smallData := c.levels[i].Data()
		// Block 0 has no preceding block and receives no carry.
		groups := ceilDiv(uint32(big.Len()), g) - 1

		label := fmt.Sprintf("hierarchical_inclusive_scan expand %d", i)
		device.SubmitAndProfile(q, label, func(h *device.Handler) {
			h.Parallel(int(groups), LocalSize, func(grp *kernel.Group) {
				block := bigData[(grp.Index()+1)*g : (grp.Index()+2)*g]
				carry := smallData[grp.Index()]
				grp.DistributeFor(g, func(item uint32) {
					block[item] = op.Combine(block[item], carry)
				})
			})
		})
	}
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

func roundUp(a, b uint32) uint32 {
	return ceilDiv(a, b) * b
}
