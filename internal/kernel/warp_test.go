package kernel

import (
	"math/rand"
	"testing"
)

// The sum fast path must agree with the generic in-window fold for every
// window length a warp can see.
func TestWarpScanSumMatchesGeneric(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	plain := New(func(a, b uint32) uint32 { return a + b }, 0)

	for n := 1; n <= WarpSize; n++ {
		input := make([]uint32, n)
		for i := range input {
			input[i] = rng.Uint32() % 1_000_000
		}

		fast := append([]uint32(nil), input...)
		slow := append([]uint32(nil), input...)
		warpScan(fast, Sum[uint32]())
		warpScan(slow, plain)

		for i := range fast {
			if fast[i] != slow[i] {
				t.Fatalf("n=%d index %d: fast %d, generic %d", n, i, fast[i], slow[i])
			}
		}
	}
}

func TestWarpScanSumUint64(t *testing.T) {
	t.Parallel()
	window := []uint64{1 << 40, 1 << 41, 1 << 42, 3}
	warpScan(window, Sum[uint64]())

	want := []uint64{1 << 40, 3 << 40, 7 << 40, 7<<40 + 3}
	for i := range window {
		if window[i] != want[i] {
			t.Fatalf("index %d: %d, want %d", i, window[i], want[i])
		}
	}
}
