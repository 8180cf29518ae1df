// Package encoder is the per-block codec feeding the hierarchical scan: it
// bit-packs fixed-size word blocks into variable-length records, scans the
// record sizes into offsets, and compacts the records into one contiguous
// stream. The decoder reverses the process block-parallel.
package encoder

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy/contrib/bitpack"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/kernel"
	"github.com/numzip/numzip/internal/scan"
)

const (
	// BlockSize is the number of words one group encodes. Inputs must be
	// padded to a multiple of it.
	BlockSize = 256

	// Every record starts with one byte holding the block's bit width.
	widthBytes = 1

	// maxRecordBytes bounds a record: width byte plus an uncompressed block.
	maxRecordBytes = widthBytes + BlockSize*4
)

// Encoded is a compacted stream of variable-length block records.
// Offsets[i] is the inclusive end offset of record i in Payload, so record
// i spans [Offsets[i-1], Offsets[i]) with Offsets[-1] taken as 0.
type Encoded struct {
	Offsets []uint32
	Payload []byte
}

// Blocks returns the record count.
func (e *Encoded) Blocks() int { return len(e.Offsets) }

// EncodeBlocks encodes values (length a multiple of BlockSize) into a
// compacted stream. Each block is packed at the bit width of its largest
// value; the per-block sizes are scanned hierarchically to place every
// record at its final offset.
func EncodeBlocks(q *device.Queue, values []uint32) (*Encoded, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("encoder: empty input")
	}
	if len(values)%BlockSize != 0 {
		return nil, fmt.Errorf("encoder: input length %d is not a multiple of the block size %d", len(values), BlockSize)
	}
	blocks := len(values) / BlockSize
	d := q.Device()

	stage := device.NewBuffer[byte](d, blocks*maxRecordBytes)
	sizes := device.NewBuffer[uint32](d, int(roundUp(uint32(blocks), scan.Granularity)))
	chain, err := scan.Allocate[uint32](d, uint32(sizes.Len()), scan.Granularity)
	if err != nil {
		return nil, fmt.Errorf("encoder: size scan: %w", err)
	}

	stageData := stage.Data()
	sizesData := sizes.Data()
	q.Submit(func(h *device.Handler) {
		h.Parallel(blocks, scan.LocalSize, func(g *kernel.Group) {
			gi := int(g.Index())
			block := values[gi*BlockSize : (gi+1)*BlockSize]
			record := stageData[gi*maxRecordBytes : (gi+1)*maxRecordBytes]
			g.SingleItem(func() {
				width := bitpack.MaxBits(block)
				record[0] = byte(width)
				packed := bitpack.Pack32(block, width, record[widthBytes:])
				sizesData[gi] = uint32(widthBytes + packed)
			})
		})
	})

	scan.Hierarchical(q, sizes, chain, kernel.Sum[uint32]())
	q.Wait()

	// sizesData now holds inclusive end offsets; the padding past the last
	// block contributed zero and leaves the total untouched.
	total := sizesData[blocks-1]
	out := device.NewBuffer[byte](d, int(total))
	outData := out.Data()

	q.Submit(func(h *device.Handler) {
		h.Parallel(blocks, scan.LocalSize, func(g *kernel.Group) {
			gi := g.Index()
			start := uint32(0)
			if gi > 0 {
				start = sizesData[gi-1]
			}
			record := stageData[uint64(gi)*maxRecordBytes:]
			g.DistributeFor(sizesData[gi]-start, func(item uint32) {
				outData[start+item] = record[item]
			})
		})
	})
	q.Wait()

	offsets := make([]uint32, blocks)
	copy(offsets, sizesData[:blocks])
	return &Encoded{Offsets: offsets, Payload: outData}, nil
}

// DecodeBlocks unpacks a compacted stream produced by EncodeBlocks back
// into Blocks()*BlockSize words.
func DecodeBlocks(q *device.Queue, enc *Encoded) ([]uint32, error) {
	if err := validate(enc); err != nil {
		return nil, err
	}

	values := make([]uint32, enc.Blocks()*BlockSize)
	payload := enc.Payload
	offsets := enc.Offsets

	q.Submit(func(h *device.Handler) {
		h.Parallel(enc.Blocks(), scan.LocalSize, func(g *kernel.Group) {
			gi := int(g.Index())
			start := uint32(0)
			if gi > 0 {
				start = offsets[gi-1]
			}
			g.SingleItem(func() {
				width := int(payload[start])
				if width > 0 {
					bitpack.Unpack32(payload[start+widthBytes:offsets[gi]], width,
						values[gi*BlockSize:(gi+1)*BlockSize])
				}
			})
		})
	})
	q.Wait()

	return values, nil
}

// validate checks the stream framing on the host so kernels can assume
// well-formed records.
func validate(enc *Encoded) error {
	if enc.Blocks() == 0 {
		return fmt.Errorf("encoder: stream has no blocks")
	}
	prev := uint32(0)
	for i, end := range enc.Offsets {
		if end < prev+widthBytes || end > uint32(len(enc.Payload)) {
			return fmt.Errorf("encoder: block %d has invalid offset %d", i, end)
		}
		width := int(enc.Payload[prev])
		if width > 32 || int(end-prev) != widthBytes+bitpack.PackedSize(BlockSize, width) {
			return fmt.Errorf("encoder: block %d record is malformed", i)
		}
		prev = end
	}
	return nil
}

func roundUp(a, b uint32) uint32 {
	return (a + b - 1) / b * b
}
