package numzip

import (
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/extent"
	"github.com/numzip/numzip/internal/logger"
)

func testDevice(t *testing.T) *device.Device {
	t.Helper()
	d := device.New(
		device.WithLogger(logger.Text(io.Discard, 0)),
		device.WithDiagnosticWriter(io.Discard),
	)
	t.Cleanup(d.Close)
	return d
}

func TestCompressRoundTrip(t *testing.T) {
	t.Parallel()
	d := testDevice(t)
	rng := rand.New(rand.NewSource(5))

	shape := extent.Of(100, 37)
	values := make([]uint32, shape.NumElements())
	for i := range values {
		values[i] = rng.Uint32() >> 12
	}

	stream, err := Compress(d, values, shape)
	require.NoError(t, err)

	decoded, gotShape, err := Decompress(d, stream)
	require.NoError(t, err)
	require.Equal(t, shape, gotShape)
	require.Equal(t, values, decoded)
}

func TestCompressFloat32RoundTrip(t *testing.T) {
	t.Parallel()
	d := testDevice(t)
	rng := rand.New(rand.NewSource(6))

	shape := extent.Of(64, 64, 3)
	values := make([]float32, shape.NumElements())
	for i := range values {
		values[i] = rng.Float32() * 100
	}

	stream, err := CompressFloat32(d, values, shape)
	require.NoError(t, err)

	decoded, gotShape, err := DecompressFloat32(d, stream)
	require.NoError(t, err)
	require.Equal(t, shape, gotShape)
	require.Equal(t, values, decoded)
}

func TestCompressSmoothDataShrinks(t *testing.T) {
	t.Parallel()
	d := testDevice(t)

	shape := extent.Of(1 << 16)
	values := make([]uint32, shape.NumElements())
	for i := range values {
		values[i] = uint32(i % 256)
	}

	stream, err := Compress(d, values, shape)
	require.NoError(t, err)
	require.Less(t, len(stream), 4*len(values)/2, "narrow values should compress below half the raw size")
}

func TestCompressShapeMismatch(t *testing.T) {
	t.Parallel()
	d := testDevice(t)

	_, err := Compress(d, make([]uint32, 10), extent.Of(11))
	require.Error(t, err)
}

func TestDecompressRejectsGarbage(t *testing.T) {
	t.Parallel()
	d := testDevice(t)

	_, _, err := Decompress(d, []byte("not a stream"))
	require.Error(t, err)

	_, _, err = Decompress(d, nil)
	require.Error(t, err)
}

func TestDtypeGuard(t *testing.T) {
	t.Parallel()
	d := testDevice(t)

	shape := extent.Of(256)
	stream, err := Compress(d, make([]uint32, 256), shape)
	require.NoError(t, err)

	_, _, err = DecompressFloat32(d, stream)
	require.Error(t, err, "word stream must not decode as float32")
}
