package encoder

import (
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/logger"
)

func testQueue(t *testing.T) *device.Queue {
	t.Helper()
	d := device.New(
		device.WithLogger(logger.Text(io.Discard, 0)),
		device.WithDiagnosticWriter(io.Discard),
	)
	t.Cleanup(d.Close)
	q := device.NewQueue(d)
	t.Cleanup(q.Close)
	return q
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	q := testQueue(t)
	rng := rand.New(rand.NewSource(3))

	for _, blocks := range []int{1, 2, 7, 64} {
		values := make([]uint32, blocks*BlockSize)
		for i := range values {
			// Mixed magnitudes so blocks pack at different widths.
			values[i] = rng.Uint32() >> (uint(i/BlockSize) % 24)
		}

		enc, err := EncodeBlocks(q, values)
		require.NoError(t, err)
		require.Equal(t, blocks, enc.Blocks())

		decoded, err := DecodeBlocks(q, enc)
		require.NoError(t, err)
		require.Equal(t, values, decoded, "blocks=%d", blocks)
	}
}

func TestEncodeSkipsZeroBlocks(t *testing.T) {
	t.Parallel()
	q := testQueue(t)

	// An all-zero block packs to just its width byte.
	values := make([]uint32, 3*BlockSize)
	for i := range BlockSize {
		values[2*BlockSize+i] = 5
	}

	enc, err := EncodeBlocks(q, values)
	require.NoError(t, err)
	require.Equal(t, uint32(1), enc.Offsets[0])
	require.Equal(t, uint32(2), enc.Offsets[1])
	require.Greater(t, enc.Offsets[2], enc.Offsets[1])

	decoded, err := DecodeBlocks(q, enc)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestEncodeOffsetsAreInclusiveSizes(t *testing.T) {
	t.Parallel()
	q := testQueue(t)

	values := make([]uint32, 4*BlockSize)
	for i := range values {
		values[i] = uint32(i % 16) // 4-bit blocks
	}

	enc, err := EncodeBlocks(q, values)
	require.NoError(t, err)

	recordSize := uint32(1 + BlockSize*4/8)
	for i, end := range enc.Offsets {
		require.Equal(t, uint32(i+1)*recordSize, end, "offset %d", i)
	}
	require.Equal(t, int(enc.Offsets[3]), len(enc.Payload))
}

func TestEncodeRejectsBadLength(t *testing.T) {
	t.Parallel()
	q := testQueue(t)

	_, err := EncodeBlocks(q, nil)
	require.Error(t, err)

	_, err = EncodeBlocks(q, make([]uint32, BlockSize+1))
	require.Error(t, err)
}

func TestDecodeRejectsMalformedStream(t *testing.T) {
	t.Parallel()
	q := testQueue(t)

	values := make([]uint32, BlockSize)
	for i := range values {
		values[i] = uint32(i)
	}
	enc, err := EncodeBlocks(q, values)
	require.NoError(t, err)

	truncated := &Encoded{Offsets: enc.Offsets, Payload: enc.Payload[:len(enc.Payload)-1]}
	_, err = DecodeBlocks(q, truncated)
	require.Error(t, err)

	badWidth := &Encoded{Offsets: enc.Offsets, Payload: append([]byte(nil), enc.Payload...)}
	badWidth.Payload[0] = 33
	_, err = DecodeBlocks(q, badWidth)
	require.Error(t, err)
}
