package buffer

import (
	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

// Buffer is a contiguous byte region that either owns its storage or views
// storage owned by someone else. Owned buffers grow by doubling their
// capacity; views have a fixed extent and reject every operation that would
// move or release the underlying memory.
type Buffer struct {
	data     []byte
	view     bool
	readOnly bool
}

// New creates an owned, zero-filled buffer of the given size.
func New(size int) (*Buffer, error) {
	if size < 0 {
		return nil, errkind.Errorf(errkind.InvalidArgument, "negative buffer size: %d", size)
	}
	return &Buffer{data: make([]byte, size)}, nil
}

// FromBytes creates an owned buffer that takes ownership of b. The caller
// must not use b afterwards.
func FromBytes(b []byte) *Buffer {
	return &Buffer{data: b}
}

// View creates a writable, non-owning view over b. The view never grows,
// shrinks or releases b.
func View(b []byte) *Buffer {
	return &Buffer{data: b, view: true}
}

// ReadOnlyView creates a read-only, non-owning view over b.
func ReadOnlyView(b []byte) *Buffer {
	return &Buffer{data: b, view: true, readOnly: true}
}

// Bytes returns the buffer's contents. The slice aliases the buffer's
// storage and is invalidated by any growing operation.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the buffer's current capacity.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// IsView reports whether the buffer is a non-owning view.
func (b *Buffer) IsView() bool {
	return b.view
}

// Resize sets the buffer's length to size. Growing zero-fills the new
// region and reallocates with doubling capacity when needed; shrinking
// keeps the allocation until Prune is called. Views cannot be resized.
func (b *Buffer) Resize(size int) error {
	if size < 0 {
		return errkind.Errorf(errkind.InvalidArgument, "negative buffer size: %d", size)
	}
	if b.view {
		return errkind.New(errkind.Failure, "cannot resize a buffer view")
	}
	if size <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:size]
		for i := old; i < size; i++ {
			b.data[i] = 0
		}
		return nil
	}
	newCap, err := grownCapacity(cap(b.data), size)
	if err != nil {
		return err
	}
	next := make([]byte, size, newCap)
	copy(next, b.data)
	b.data = next
	return nil
}

// Clear truncates the buffer to zero length, keeping its capacity. Views
// cannot be cleared.
func (b *Buffer) Clear() error {
	if b.view {
		return errkind.New(errkind.Failure, "cannot clear a buffer view")
	}
	b.data = b.data[:0]
	return nil
}

// Prune releases excess capacity so the allocation matches the length.
func (b *Buffer) Prune() {
	if b.view || cap(b.data) == len(b.data) {
		return
	}
	next := make([]byte, len(b.data))
	copy(next, b.data)
	b.data = next
}

// AppendByte appends a single byte. Views cannot be appended to.
func (b *Buffer) AppendByte(c byte) error {
	return b.AppendBytes([]byte{c})
}

// AppendBytes appends the contents of p. Views cannot be appended to.
func (b *Buffer) AppendBytes(p []byte) error {
	if b.view {
		return errkind.New(errkind.Failure, "cannot append to a buffer view")
	}
	oldLen := len(b.data)
	if err := b.Resize(oldLen + len(p)); err != nil {
		return err
	}
	copy(b.data[oldLen:], p)
	return nil
}

// Concat appends the contents of another buffer.
func (b *Buffer) Concat(other *Buffer) error {
	return b.AppendBytes(other.Bytes())
}

// Fill sets every stored byte to c. Read-only views reject Fill; writable
// views accept it since it does not move the storage.
func (b *Buffer) Fill(c byte) error {
	if b.readOnly {
		return errkind.New(errkind.Failure, "cannot fill a read-only buffer view")
	}
	for i := range b.data {
		b.data[i] = c
	}
	return nil
}

// grownCapacity doubles oldCap until it covers need, reporting out-of-memory
// if the arithmetic would wrap.
func grownCapacity(oldCap, need int) (int, error) {
	newCap := oldCap
	if newCap == 0 {
		newCap = 1
	}
	for newCap < need {
		newCap *= 2
		if newCap <= 0 {
			return 0, errkind.Errorf(errkind.OutOfMemory, "buffer capacity overflow: need %d bytes", need)
		}
	}
	return newCap, nil
}
