package numzip

import (
	"encoding/binary"
	"fmt"

	"github.com/numzip/numzip/internal/extent"
)

// Container layout, little-endian:
//
//	magic   [4]byte  "numz"
//	version uint8
//	dtype   uint8
//	dims    uint8
//	shape   dims * uint64
//	blocks  uint32
//	offsets blocks * uint32 (inclusive end offsets)
//	payload
const (
	formatVersion = 1

	dtypeWord    = 0
	dtypeFloat32 = 1
)

var magic = [4]byte{'n', 'u', 'm', 'z'}

type header struct {
	dtype  byte
	shape  extent.Extent
	blocks uint32
}

func appendHeader(dst []byte, h header) []byte {
	dst = append(dst, magic[:]...)
	dst = append(dst, formatVersion, h.dtype, byte(h.shape.Dims()))
	for i := range h.shape.Dims() {
		dst = binary.LittleEndian.AppendUint64(dst, h.shape.At(i))
	}
	return binary.LittleEndian.AppendUint32(dst, h.blocks)
}

func parseHeader(stream []byte) (header, []byte, error) {
	var h header
	if len(stream) < len(magic)+3 {
		return h, nil, fmt.Errorf("numzip: stream too short for header")
	}
	if [4]byte(stream[:4]) != magic {
		return h, nil, fmt.Errorf("numzip: bad magic")
	}
	if stream[4] != formatVersion {
		return h, nil, fmt.Errorf("numzip: unsupported format version %d", stream[4])
	}
	h.dtype = stream[5]
	dims := int(stream[6])
	rest := stream[7:]

	if dims < 1 || dims > extent.MaxDims {
		return h, nil, fmt.Errorf("numzip: dimensionality %d out of range", dims)
	}
	if len(rest) < dims*8+4 {
		return h, nil, fmt.Errorf("numzip: stream too short for %d-dimensional shape", dims)
	}
	components := make([]uint64, dims)
	for i := range components {
		components[i] = binary.LittleEndian.Uint64(rest[i*8:])
	}
	h.shape = extent.FromSlice(components)
	rest = rest[dims*8:]

	h.blocks = binary.LittleEndian.Uint32(rest)
	return h, rest[4:], nil
}
