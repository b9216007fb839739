// Package trajectory decodes drone-show trajectory blocks into
// piecewise-polynomial form and answers time-indexed kinematic queries
// against them.
//
// A trajectory block body starts with a one-byte coordinate scale
// (1..127, bit 7 clear) and the show's start point (x, y, z as scaled
// int16 millimetres, yaw as int16 tenth-degrees), followed by segment
// records. Each record is a format byte (2-bit control-point-count codes
// for x, y, z and yaw), a little-endian uint16 duration in milliseconds,
// and the stored Bezier control points per channel. The first control
// point of every channel is implicit: it is the previous segment's end
// point. A segment therefore cannot be decoded in isolation, which is why
// backward seeks restart from the first segment.
package trajectory

import (
	"encoding/binary"
	"io"

	"github.com/skybrush-io/skyb-go/pkg/buffer"
	"github.com/skybrush-io/skyb-go/pkg/errkind"
	"github.com/skybrush-io/skyb-go/pkg/poly"
)

// Vector4 is a position, velocity or acceleration sample: x, y, z in
// millimetre-based units and yaw in degree-based units.
type Vector4 struct {
	X   float64
	Y   float64
	Z   float64
	Yaw float64
}

// Vector3 is a spatial point or extent in millimetres.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// BoundingBox is an axis-aligned spatial bounding box.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// expand grows the box to include v on the given axis selector results.
func (b *BoundingBox) expand(x, y, z float64) {
	if x < b.Min.X {
		b.Min.X = x
	}
	if x > b.Max.X {
		b.Max.X = x
	}
	if y < b.Min.Y {
		b.Min.Y = y
	}
	if y > b.Max.Y {
		b.Max.Y = y
	}
	if z < b.Min.Z {
		b.Min.Z = z
	}
	if z > b.Max.Z {
		b.Max.Z = z
	}
}

const (
	// headerSize is the size of a non-empty trajectory block header:
	// scale byte plus four int16 start point channels.
	headerSize = 9
	// segmentHeaderSize is the fixed prefix of a segment record: format
	// byte plus uint16 duration.
	segmentHeaderSize = 3
	// maxScale is the largest representable coordinate scale.
	maxScale = 127
)

// pointCounts maps a 2-bit format code to the number of stored control
// points for a channel.
var pointCounts = [4]int{0, 1, 3, 7}

// Trajectory is the decoded-on-demand model of a trajectory block. It owns
// (or views) the raw block body and derives segments lazily through
// cursors. A Trajectory may be shared by any number of Players; mutating
// the underlying buffer while players are active is the caller's
// responsibility to avoid.
type Trajectory struct {
	buf       *buffer.Buffer
	scale     float64
	headerLen int
	start     Vector4

	totalMs    int64
	totalKnown bool
}

// FromBlock creates a Trajectory from a copy of the given block body. A
// zero-length body is the empty trajectory, stationary at the origin.
func FromBlock(body []byte) (*Trajectory, error) {
	copied := make([]byte, len(body))
	copy(copied, body)
	return FromBuffer(buffer.FromBytes(copied))
}

// FromBuffer creates a Trajectory over the given buffer without copying.
// Pass a read-only view to parse externally-owned memory in place.
func FromBuffer(buf *buffer.Buffer) (*Trajectory, error) {
	t := &Trajectory{buf: buf, scale: 1}
	body := buf.Bytes()
	if len(body) == 0 {
		return t, nil
	}
	if len(body) < headerSize {
		return nil, errkind.Errorf(errkind.Parse, "trajectory header truncated: %d bytes", len(body))
	}
	scale := body[0]
	if scale == 0 || scale > maxScale {
		return nil, errkind.Errorf(errkind.Parse, "invalid coordinate scale byte %#02x", scale)
	}
	t.scale = float64(scale)
	t.headerLen = headerSize
	t.start = Vector4{
		X:   float64(int16(binary.LittleEndian.Uint16(body[1:]))) * t.scale,
		Y:   float64(int16(binary.LittleEndian.Uint16(body[3:]))) * t.scale,
		Z:   float64(int16(binary.LittleEndian.Uint16(body[5:]))) * t.scale,
		Yaw: float64(int16(binary.LittleEndian.Uint16(body[7:]))) / 10,
	}
	return t, nil
}

// IsEmpty reports whether the trajectory has no segments.
func (t *Trajectory) IsEmpty() bool {
	return t.buf.Len() <= t.headerLen
}

// StartPoint returns the trajectory's start point. The empty trajectory
// starts at the origin.
func (t *Trajectory) StartPoint() Vector4 {
	return t.start
}

// Scale returns the fixed-point coordinate scale in millimetres per unit.
func (t *Trajectory) Scale() float64 {
	return t.scale
}

// TotalDurationMsec returns the sum of all segment durations in
// milliseconds, walking the segment records once and caching the result.
// Corruption in any segment record surfaces here, since the walk has to
// decode every record header.
func (t *Trajectory) TotalDurationMsec() (int64, error) {
	if t.totalKnown {
		return t.totalMs, nil
	}
	var total int64
	c := newCursor(t)
	for {
		err := c.advance()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		total += int64(c.durMs)
	}
	t.totalMs = total
	t.totalKnown = true
	return total, nil
}

// NewPlayer creates a player positioned before the first segment. The
// player borrows the trajectory and must not outlive it.
func (t *Trajectory) NewPlayer() *Player {
	p := &Player{traj: t}
	p.cur = newCursor(t)
	return p
}

// cursor is the lazy decoding state over a trajectory's segment records:
// the byte offset and time range of the current segment together with its
// decoded polynomial. The zero cursor is unpositioned; advance moves it to
// the next segment.
type cursor struct {
	traj    *Trajectory
	valid   bool
	index   int
	offset  int // byte offset of the current segment record
	size    int // byte size of the current segment record
	startMs int64
	durMs   int
	start   Vector4
	end     Vector4
	poly    poly.Poly4D
}

func newCursor(t *Trajectory) cursor {
	return cursor{traj: t}
}

// rewind returns the cursor to the unpositioned state before the first
// segment.
func (c *cursor) rewind() {
	*c = newCursor(c.traj)
}

// startSec returns the absolute start time of the current segment in
// seconds.
func (c *cursor) startSec() float64 {
	return float64(c.startMs) / 1000
}

// endSec returns the absolute end time of the current segment in seconds.
func (c *cursor) endSec() float64 {
	return float64(c.startMs+int64(c.durMs)) / 1000
}

// durSec returns the current segment's duration in seconds.
func (c *cursor) durSec() float64 {
	return float64(c.durMs) / 1000
}

// advance decodes the next segment record. It returns io.EOF past the last
// segment and a corruption error when the record does not fit the buffer.
// Corruption is detected here, on first decode, never earlier.
func (c *cursor) advance() error {
	t := c.traj
	body := t.buf.Bytes()

	offset := t.headerLen
	startMs := int64(0)
	index := 0
	prev := t.start
	if c.valid {
		offset = c.offset + c.size
		startMs = c.startMs + int64(c.durMs)
		index = c.index + 1
		prev = c.end
	}
	if offset >= len(body) {
		return io.EOF
	}
	if offset+segmentHeaderSize > len(body) {
		return errkind.Errorf(errkind.Corrupted, "segment %d header truncated at offset %d", index, offset)
	}

	format := body[offset]
	durMs := int(binary.LittleEndian.Uint16(body[offset+1:]))

	counts := [4]int{
		pointCounts[format&3],
		pointCounts[(format>>2)&3],
		pointCounts[(format>>4)&3],
		pointCounts[(format>>6)&3],
	}
	size := segmentHeaderSize + 2*(counts[0]+counts[1]+counts[2]+counts[3])
	if offset+size > len(body) {
		return errkind.Errorf(errkind.Corrupted,
			"segment %d needs %d bytes at offset %d but only %d remain",
			index, size, offset, len(body)-offset)
	}

	durSec := float64(durMs) / 1000
	pos := offset + segmentHeaderSize
	channel := func(start float64, count int, unit func(int16) float64) (poly.Poly, float64, error) {
		points := make([]float64, 0, count+1)
		points = append(points, start)
		for k := 0; k < count; k++ {
			raw := int16(binary.LittleEndian.Uint16(body[pos:]))
			pos += 2
			points = append(points, unit(raw))
		}
		p, err := poly.Bezier(points, durSec)
		return p, points[len(points)-1], err
	}
	coord := func(raw int16) float64 { return float64(raw) * t.scale }
	yaw := func(raw int16) float64 { return float64(raw) / 10 }

	var seg poly.Poly4D
	var end Vector4
	var err error
	if seg.X, end.X, err = channel(prev.X, counts[0], coord); err != nil {
		return err
	}
	if seg.Y, end.Y, err = channel(prev.Y, counts[1], coord); err != nil {
		return err
	}
	if seg.Z, end.Z, err = channel(prev.Z, counts[2], coord); err != nil {
		return err
	}
	if seg.Yaw, end.Yaw, err = channel(prev.Yaw, counts[3], yaw); err != nil {
		return err
	}

	c.valid = true
	c.index = index
	c.offset = offset
	c.size = size
	c.startMs = startMs
	c.durMs = durMs
	c.start = prev
	c.end = end
	c.poly = seg
	return nil
}
