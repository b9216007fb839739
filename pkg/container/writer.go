package container

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/skybrush-io/skyb-go/pkg/buffer"
	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

// Writer assembles a skyb container in memory. It is the encoding
// counterpart of Reader, used to build show files and test fixtures.
type Writer struct {
	version  byte
	checksum bool
	blocks   []ownedBlock
}

type ownedBlock struct {
	typ  BlockType
	body []byte
}

// NewWriter creates a writer for the given container version. Checksums
// require version 2, since version 1 has no feature mask to announce them.
func NewWriter(version int, withChecksum bool) (*Writer, error) {
	if version != 1 && version != 2 {
		return nil, errkind.Errorf(errkind.InvalidArgument, "unsupported container version %d", version)
	}
	if withChecksum && version < 2 {
		return nil, errkind.New(errkind.InvalidArgument, "checksums require container version 2")
	}
	return &Writer{version: byte(version), checksum: withChecksum}, nil
}

// AddBlock appends a block. The body is copied; it may not exceed the
// 2-byte length field's range.
func (w *Writer) AddBlock(t BlockType, body []byte) error {
	if len(body) > math.MaxUint16 {
		return errkind.Errorf(errkind.Overflow, "block body of %d bytes exceeds length field", len(body))
	}
	copied := make([]byte, len(body))
	copy(copied, body)
	w.blocks = append(w.blocks, ownedBlock{typ: t, body: copied})
	return nil
}

// Bytes serializes the container. With checksums enabled, the CRC32 is
// computed over the whole output with the checksum field zeroed, then
// patched in.
func (w *Writer) Bytes() []byte {
	// Appends to an owned buffer only fail on capacity overflow, which a
	// two-byte-length block format cannot reach.
	out := buffer.FromBytes(nil)
	_ = out.AppendBytes([]byte(magic))
	_ = out.AppendByte(w.version)
	checksumOffset := -1
	if w.version >= 2 {
		var features byte
		if w.checksum {
			features |= featureChecksum
		}
		_ = out.AppendByte(features)
		if w.checksum {
			checksumOffset = out.Len()
			_ = out.AppendBytes(make([]byte, 4))
		}
	}

	var head [blockHeaderSize]byte
	for _, b := range w.blocks {
		head[0] = byte(b.typ)
		binary.LittleEndian.PutUint16(head[1:], uint16(len(b.body)))
		_ = out.AppendBytes(head[:])
		_ = out.AppendBytes(b.body)
	}

	data := out.Bytes()
	if checksumOffset >= 0 {
		sum := crc32.ChecksumIEEE(data) // field is still zero here
		binary.LittleEndian.PutUint32(data[checksumOffset:], sum)
	}
	return data
}
