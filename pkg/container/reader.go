package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/skybrush-io/skyb-go/pkg/buffer"
	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

const (
	magic           = "skyb"
	featureChecksum = 0x01
	blockHeaderSize = 3
)

// Reader traverses the blocks of a skyb container backed by any
// io.ReadSeeker: an open file handle or an in-memory bytes.Reader share the
// same traversal algorithm. The header (magic, version, checksum) is
// validated eagerly when the reader is created; block bodies are only read
// on request.
type Reader struct {
	src        io.ReadSeeker
	size       int64
	firstBlock int64
	nextOffset int64
	version    byte
	features   byte
}

// NewReader validates the container header of src and positions the reader
// before the first block. A bad magic or unsupported version yields a parse
// error; a checksum mismatch yields a corruption error before any block is
// exposed.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errkind.Errorf(errkind.IO, "seeking container end: %v", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, errkind.Errorf(errkind.IO, "seeking container start: %v", err)
	}

	r := &Reader{src: src, size: size}

	head := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(src, head); err != nil {
		return nil, errkind.Errorf(errkind.Parse, "container header truncated: %v", err)
	}
	if string(head[:4]) != magic {
		return nil, errkind.Errorf(errkind.Parse, "bad magic %q", head[:4])
	}
	r.version = head[4]

	switch r.version {
	case 1:
		r.firstBlock = int64(len(head))
	case 2:
		var feat [1]byte
		if _, err := io.ReadFull(src, feat[:]); err != nil {
			return nil, errkind.Errorf(errkind.Parse, "container header truncated: %v", err)
		}
		r.features = feat[0]
		r.firstBlock = int64(len(head)) + 1
		if r.features&featureChecksum != 0 {
			var sum [4]byte
			if _, err := io.ReadFull(src, sum[:]); err != nil {
				return nil, errkind.Errorf(errkind.Parse, "container header truncated: %v", err)
			}
			r.firstBlock += 4
			if err := r.verifyChecksum(binary.LittleEndian.Uint32(sum[:])); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errkind.Errorf(errkind.Parse, "unsupported container version %d", r.version)
	}

	r.Rewind()
	return r, nil
}

// NewReaderFromBytes wraps b in a bytes.Reader and validates it as a
// container.
func NewReaderFromBytes(b []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(b))
}

// Version returns the container format version (1 or 2).
func (r *Reader) Version() int {
	return int(r.version)
}

// HasChecksum reports whether the container declares a CRC32 checksum.
func (r *Reader) HasChecksum() bool {
	return r.features&featureChecksum != 0
}

// Rewind positions the reader before the first block.
func (r *Reader) Rewind() {
	r.nextOffset = r.firstBlock
}

// Next advances to the next block and returns its header. It returns io.EOF
// once the container is exhausted. Only the 3-byte block header is read;
// the body is skipped over.
func (r *Reader) Next() (Block, error) {
	if r.nextOffset >= r.size {
		return Block{}, io.EOF
	}
	if r.nextOffset+blockHeaderSize > r.size {
		return Block{}, errkind.Errorf(errkind.Parse, "truncated block header at offset %d", r.nextOffset)
	}
	if _, err := r.src.Seek(r.nextOffset, io.SeekStart); err != nil {
		return Block{}, errkind.Errorf(errkind.IO, "seeking block header: %v", err)
	}
	var head [blockHeaderSize]byte
	if _, err := io.ReadFull(r.src, head[:]); err != nil {
		return Block{}, errkind.Errorf(errkind.IO, "reading block header: %v", err)
	}

	block := Block{
		Type:       BlockType(head[0]),
		Length:     int(binary.LittleEndian.Uint16(head[1:])),
		BodyOffset: r.nextOffset + blockHeaderSize,
	}
	if block.end() > r.size {
		return Block{}, errkind.Errorf(errkind.Parse,
			"block at offset %d declares %d body bytes but only %d remain",
			r.nextOffset, block.Length, r.size-block.BodyOffset)
	}
	r.nextOffset = block.end()
	return block, nil
}

// Find rewinds and scans forward for the first block of the given type.
// It returns a not-found error when the container has no such block.
func (r *Reader) Find(t BlockType) (Block, error) {
	r.Rewind()
	for {
		block, err := r.Next()
		if err == io.EOF {
			return Block{}, errkind.Errorf(errkind.NotFound, "no %s block in container", t)
		}
		if err != nil {
			return Block{}, err
		}
		if block.Type == t {
			return block, nil
		}
	}
}

// ReadBody reads the block's body into buf, resizing it to the block's
// declared length first. A view buffer already sized to the block's length
// is accepted as-is.
func (r *Reader) ReadBody(block Block, buf *buffer.Buffer) error {
	if buf.Len() != block.Length {
		if err := buf.Resize(block.Length); err != nil {
			return err
		}
	}
	if _, err := r.src.Seek(block.BodyOffset, io.SeekStart); err != nil {
		return errkind.Errorf(errkind.IO, "seeking block body: %v", err)
	}
	if _, err := io.ReadFull(r.src, buf.Bytes()); err != nil {
		return errkind.Errorf(errkind.IO, "reading block body: %v", err)
	}
	return nil
}

// ReadBodyBytes reads the block's body into a fresh owned slice.
func (r *Reader) ReadBodyBytes(block Block) ([]byte, error) {
	buf := buffer.FromBytes(nil)
	if err := r.ReadBody(block, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// verifyChecksum recomputes the container's CRC32 with the checksum field
// zeroed and compares it against the stored value. The block region is
// streamed through the hash so no more than one chunk is held in memory.
func (r *Reader) verifyChecksum(stored uint32) error {
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return errkind.Errorf(errkind.IO, "seeking for checksum: %v", err)
	}

	sum := crc32.NewIEEE()
	prefix := make([]byte, len(magic)+2) // magic + version + features
	if _, err := io.ReadFull(r.src, prefix); err != nil {
		return errkind.Errorf(errkind.IO, "reading for checksum: %v", err)
	}
	mustWrite(sum, prefix)
	mustWrite(sum, make([]byte, 4)) // checksum field counts as zeroes

	if _, err := r.src.Seek(r.firstBlock, io.SeekStart); err != nil {
		return errkind.Errorf(errkind.IO, "seeking for checksum: %v", err)
	}
	if _, err := io.Copy(sum, r.src); err != nil {
		return errkind.Errorf(errkind.IO, "reading for checksum: %v", err)
	}

	if computed := sum.Sum32(); computed != stored {
		return errkind.Errorf(errkind.Corrupted,
			"container checksum mismatch: stored %08x, computed %08x", stored, computed)
	}
	return nil
}

func mustWrite(w io.Writer, p []byte) {
	if _, err := w.Write(p); err != nil {
		// hash.Hash writers never fail
		panic(fmt.Sprintf("hash write: %v", err))
	}
}
