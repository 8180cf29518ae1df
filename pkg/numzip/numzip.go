// Package numzip is the host-facing compression API: it frames the block
// codec's compacted streams into a self-describing container and handles
// the float bit-casting and padding the codec does not.
package numzip

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/encoder"
	"github.com/numzip/numzip/internal/extent"
)

// Compress encodes a word array of the given shape into a container stream.
func Compress(d *device.Device, values []uint32, shape extent.Extent) ([]byte, error) {
	return compress(d, values, shape, dtypeWord)
}

// CompressFloat32 compresses a float32 array by bit-casting it to words.
func CompressFloat32(d *device.Device, values []float32, shape extent.Extent) ([]byte, error) {
	words := make([]uint32, len(values))
	for i, v := range values {
		words[i] = math.Float32bits(v)
	}
	return compress(d, words, shape, dtypeFloat32)
}

// Decompress decodes a container stream produced by Compress.
func Decompress(d *device.Device, stream []byte) ([]uint32, extent.Extent, error) {
	return decompress(d, stream, dtypeWord)
}

// DecompressFloat32 decodes a container stream produced by CompressFloat32.
func DecompressFloat32(d *device.Device, stream []byte) ([]float32, extent.Extent, error) {
	words, shape, err := decompress(d, stream, dtypeFloat32)
	if err != nil {
		return nil, extent.Extent{}, err
	}
	values := make([]float32, len(words))
	for i, w := range words {
		values[i] = math.Float32frombits(w)
	}
	return values, shape, nil
}

func compress(d *device.Device, values []uint32, shape extent.Extent, dtype byte) ([]byte, error) {
	n := shape.NumElements()
	if n == 0 || n != uint64(len(values)) {
		return nil, fmt.Errorf("numzip: shape %v does not match %d values", shape, len(values))
	}

	padded := values
	if rem := len(values) % encoder.BlockSize; rem != 0 {
		padded = make([]uint32, len(values)+encoder.BlockSize-rem)
		copy(padded, values)
	}

	q := device.NewQueue(d)
	defer q.Close()
	enc, err := encoder.EncodeBlocks(q, padded)
	if err != nil {
		return nil, err
	}

	stream := appendHeader(nil, header{
		dtype:  dtype,
		shape:  shape,
		blocks: uint32(enc.Blocks()),
	})
	for _, end := range enc.Offsets {
		stream = binary.LittleEndian.AppendUint32(stream, end)
	}
	return append(stream, enc.Payload...), nil
}

func decompress(d *device.Device, stream []byte, dtype byte) ([]uint32, extent.Extent, error) {
	h, rest, err := parseHeader(stream)
	if err != nil {
		return nil, extent.Extent{}, err
	}
	if h.dtype != dtype {
		return nil, extent.Extent{}, fmt.Errorf("numzip: stream holds dtype %d, requested %d", h.dtype, dtype)
	}
	if uint64(len(rest)) < uint64(h.blocks)*4 {
		return nil, extent.Extent{}, fmt.Errorf("numzip: stream too short for %d block offsets", h.blocks)
	}
	offsets := make([]uint32, h.blocks)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(rest[i*4:])
	}

	n := h.shape.NumElements()
	if uint64(h.blocks)*encoder.BlockSize < n {
		return nil, extent.Extent{}, fmt.Errorf("numzip: %d blocks cannot hold shape %v", h.blocks, h.shape)
	}

	q := device.NewQueue(d)
	defer q.Close()
	words, err := encoder.DecodeBlocks(q, &encoder.Encoded{
		Offsets: offsets,
		Payload: rest[h.blocks*4:],
	})
	if err != nil {
		return nil, extent.Extent{}, err
	}
	return words[:n], h.shape, nil
}
