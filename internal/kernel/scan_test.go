package kernel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func sequentialScan[T any](values []T, combine func(a, b T) T) []T {
	out := make([]T, len(values))
	for i, v := range values {
		if i == 0 {
			out[i] = v
			continue
		}
		out[i] = combine(out[i-1], v)
	}
	return out
}

func TestScanWithinOneWarp(t *testing.T) {
	t.Parallel()
	g := NewGroup(0, WarpSize)

	for _, n := range []int{1, 2, WarpSize / 2, WarpSize - 1, WarpSize} {
		values := make([]uint32, n)
		for i := range values {
			values[i] = uint32(i*3 + 1)
		}
		want := sequentialScan(values, func(a, b uint32) uint32 { return a + b })

		InclusiveScanOverGroup(g, values, nil, Sum[uint32]())
		require.Equal(t, want, values, "range %d", n)
	}
}

func TestScanPaddingDoesNotLeak(t *testing.T) {
	t.Parallel()
	g := NewGroup(0, WarpSize)

	// A short window backed by a larger array: the scan must only touch the
	// first n elements.
	backing := make([]uint32, WarpSize)
	for i := range backing {
		backing[i] = 1000
	}
	n := 5
	for i := range n {
		backing[i] = uint32(i + 1)
	}

	InclusiveScanOverGroup(g, backing[:n], nil, Sum[uint32]())
	require.Equal(t, []uint32{1, 3, 6, 10, 15}, backing[:n])
	for i := n; i < WarpSize; i++ {
		require.Equal(t, uint32(1000), backing[i], "padding element %d modified", i)
	}
}

func TestScanBeyondOneWarp(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))

	for _, n := range []uint32{WarpSize + 1, 3 * WarpSize, 256, 512, 2048, 2*WarpSize*WarpSize + 17} {
		values := make([]uint32, n)
		for i := range values {
			values[i] = uint32(rng.Intn(1000))
		}
		want := sequentialScan(values, func(a, b uint32) uint32 { return a + b })

		g := NewGroup(0, 8*WarpSize)
		InclusiveScanOverGroup(g, values, NewScratch[uint32](n), Sum[uint32]())
		require.Equal(t, want, values, "range %d", n)
	}
}

func TestScanIndependentOfLocalSize(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(2))

	const n = 777
	input := make([]uint32, n)
	for i := range input {
		input[i] = uint32(rng.Intn(100))
	}
	want := sequentialScan(input, func(a, b uint32) uint32 { return a + b })

	for _, local := range []uint32{WarpSize, 2 * WarpSize, 8 * WarpSize} {
		values := append([]uint32(nil), input...)
		g := NewGroup(0, local)
		InclusiveScanOverGroup(g, values, NewScratch[uint32](n), Sum[uint32]())
		require.Equal(t, want, values, "local size %d", local)
	}
}

func TestScanMaximumOperator(t *testing.T) {
	t.Parallel()
	values := []int32{3, -1, 4, -1, 5, -9, 2, 6}
	want := sequentialScan(values, func(a, b int32) int32 { return max(a, b) })

	g := NewGroup(0, WarpSize)
	InclusiveScanOverGroup(g, values, nil, Maximum[int32]())
	require.Equal(t, want, values)
}

func TestScanCustomOperator(t *testing.T) {
	t.Parallel()
	// Modular addition: associative, but distinct from the built-in Sum path.
	combine := func(a, b uint32) uint32 { return (a + b) % 97 }
	values := make([]uint32, 300)
	for i := range values {
		values[i] = uint32(i * 7)
	}
	want := sequentialScan(values, combine)

	g := NewGroup(0, 2*WarpSize)
	InclusiveScanOverGroup(g, values, NewScratch[uint32](uint32(len(values))), New(combine, 0))
	require.Equal(t, want, values)
}

func TestScanPanicsOnMissizedScratch(t *testing.T) {
	t.Parallel()
	g := NewGroup(0, WarpSize)
	values := make([]uint32, 4*WarpSize)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mis-sized scratch")
		}
	}()
	InclusiveScanOverGroup(g, values, NewScratch[uint32](WarpSize), Sum[uint32]())
}

func BenchmarkScanOverGroup(b *testing.B) {
	const n = 4096
	values := make([]uint32, n)
	for i := range values {
		values[i] = uint32(i)
	}
	g := NewGroup(0, 8*WarpSize)
	scratch := NewScratch[uint32](n)
	op := Sum[uint32]()

	for b.Loop() {
		InclusiveScanOverGroup(g, values, scratch, op)
	}
}
