package kernel

import "testing"

func TestScratchEmptyWithinWarp(t *testing.T) {
	t.Parallel()
	for _, r := range []uint32{0, 1, WarpSize} {
		if s := NewScratch[uint32](r); s != nil {
			t.Fatalf("range %d: expected no scratch, got depth %d", r, s.Depth())
		}
	}
}

func TestScratchLevelSizes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		r     uint32
		sizes []int
	}{
		{WarpSize + 1, []int{2}},
		{2 * WarpSize, []int{2}},
		{WarpSize * WarpSize, []int{WarpSize}},
		{WarpSize*WarpSize + 1, []int{WarpSize + 1, 2}},
		{2048, []int{64, 2}},
	}
	for _, tc := range cases {
		s := NewScratch[uint32](tc.r)
		for level, want := range tc.sizes {
			if s == nil {
				t.Fatalf("range %d: chain ends at level %d, want %d levels", tc.r, level, len(tc.sizes))
			}
			if len(s.Coarse) != want {
				t.Fatalf("range %d level %d: %d coarse slots, want %d", tc.r, level, len(s.Coarse), want)
			}
			s = s.Next
		}
		if s != nil {
			t.Fatalf("range %d: chain deeper than %d levels", tc.r, len(tc.sizes))
		}
	}
}

func TestScratchTerminalLevelFitsOneWarp(t *testing.T) {
	t.Parallel()
	for _, r := range []uint32{WarpSize + 1, 1 << 10, 1 << 16, 1 << 20} {
		s := NewScratch[uint32](r)
		for s.Next != nil {
			s = s.Next
		}
		if len(s.Coarse) > WarpSize {
			t.Fatalf("range %d: terminal level has %d slots, want <= %d", r, len(s.Coarse), WarpSize)
		}
	}
}
