package trajectory

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/skybrush-io/skyb-go/pkg/buffer"
	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

// maxSegmentMsec is the largest duration one segment record can carry.
const maxSegmentMsec = math.MaxUint16

// formatCode maps a stored-control-point count to its 2-bit format code.
var formatCode = map[int]byte{0: 0, 1: 1, 3: 2, 7: 3}

// Encoder builds a trajectory block body from Bezier segments. Control
// points are given in physical units (mm, degrees for yaw); the first
// control point of every channel is implicit, carried over from the
// previous segment's end. The fixed-point coordinate scale is selected by
// a worst-case pre-scan when the block is encoded.
type Encoder struct {
	start Vector4
	segs  []encoderSegment
}

type encoderSegment struct {
	durMs int64
	x     []float64
	y     []float64
	z     []float64
	yaw   []float64
}

// NewEncoder creates an encoder for a trajectory starting at the given
// point.
func NewEncoder(start Vector4) *Encoder {
	return &Encoder{start: start}
}

// Append adds a segment. Each channel carries its stored control points:
// nil or empty holds the previous value, one point is a linear move, three
// points a cubic Bezier and seven points a degree-7 Bezier. Durations
// beyond the 16-bit millisecond range are an overflow error.
func (e *Encoder) Append(d time.Duration, x, y, z, yaw []float64) error {
	if d < 0 {
		return errkind.Errorf(errkind.InvalidArgument, "negative segment duration %v", d)
	}
	durMs := d.Milliseconds()
	if durMs > maxSegmentMsec {
		return errkind.Errorf(errkind.Overflow, "segment duration %v exceeds %d ms", d, maxSegmentMsec)
	}
	for _, ch := range [][]float64{x, y, z, yaw} {
		if _, ok := formatCode[len(ch)]; !ok {
			return errkind.Errorf(errkind.InvalidArgument, "unsupported control point count %d", len(ch))
		}
	}
	e.segs = append(e.segs, encoderSegment{durMs: durMs, x: x, y: y, z: z, yaw: yaw})
	return nil
}

// AppendLine adds a linear segment moving to the given point.
func (e *Encoder) AppendLine(d time.Duration, to Vector4) error {
	return e.Append(d, []float64{to.X}, []float64{to.Y}, []float64{to.Z}, []float64{to.Yaw})
}

// AppendHold adds a segment that keeps the previous position.
func (e *Encoder) AppendHold(d time.Duration) error {
	return e.Append(d, nil, nil, nil, nil)
}

// EncodeBlock serializes the trajectory into a block body suitable for a
// container trajectory block. The coordinate scale is the smallest integer
// s ≤ 127 with max|coordinate| ≤ s × 32767; coordinates that cannot be
// represented at any legal scale are an overflow error.
func (e *Encoder) EncodeBlock() ([]byte, error) {
	scale, err := e.selectScale()
	if err != nil {
		return nil, err
	}

	out := buffer.FromBytes(nil)
	_ = out.AppendByte(byte(scale))
	if err := appendPoint(out, e.start, scale); err != nil {
		return nil, err
	}

	for _, seg := range e.segs {
		format := formatCode[len(seg.x)] |
			formatCode[len(seg.y)]<<2 |
			formatCode[len(seg.z)]<<4 |
			formatCode[len(seg.yaw)]<<6
		_ = out.AppendByte(format)

		var dur [2]byte
		binary.LittleEndian.PutUint16(dur[:], uint16(seg.durMs))
		_ = out.AppendBytes(dur[:])

		for _, v := range seg.x {
			if err := appendCoord(out, v, scale); err != nil {
				return nil, err
			}
		}
		for _, v := range seg.y {
			if err := appendCoord(out, v, scale); err != nil {
				return nil, err
			}
		}
		for _, v := range seg.z {
			if err := appendCoord(out, v, scale); err != nil {
				return nil, err
			}
		}
		for _, v := range seg.yaw {
			if err := appendYaw(out, v); err != nil {
				return nil, err
			}
		}
	}
	return out.Bytes(), nil
}

// selectScale runs the worst-case magnitude pre-scan over every spatial
// coordinate the block will store.
func (e *Encoder) selectScale() (int, error) {
	maxAbs := math.Max(math.Abs(e.start.X), math.Max(math.Abs(e.start.Y), math.Abs(e.start.Z)))
	for _, seg := range e.segs {
		for _, ch := range [][]float64{seg.x, seg.y, seg.z} {
			for _, v := range ch {
				maxAbs = math.Max(maxAbs, math.Abs(v))
			}
		}
	}
	scale := int(math.Ceil(maxAbs / math.MaxInt16))
	if scale < 1 {
		scale = 1
	}
	if scale > maxScale {
		return 0, errkind.Errorf(errkind.Overflow,
			"coordinate magnitude %.0f mm not representable at any scale <= %d", maxAbs, maxScale)
	}
	return scale, nil
}

func appendPoint(out *buffer.Buffer, p Vector4, scale int) error {
	if err := appendCoord(out, p.X, scale); err != nil {
		return err
	}
	if err := appendCoord(out, p.Y, scale); err != nil {
		return err
	}
	if err := appendCoord(out, p.Z, scale); err != nil {
		return err
	}
	return appendYaw(out, p.Yaw)
}

func appendCoord(out *buffer.Buffer, v float64, scale int) error {
	return appendInt16(out, math.Round(v/float64(scale)), "coordinate", v)
}

func appendYaw(out *buffer.Buffer, v float64) error {
	return appendInt16(out, math.Round(v*10), "yaw", v)
}

func appendInt16(out *buffer.Buffer, quantized float64, what string, orig float64) error {
	if quantized < math.MinInt16 || quantized > math.MaxInt16 {
		return errkind.Errorf(errkind.Overflow, "%s %v out of fixed-point range", what, orig)
	}
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(int16(quantized)))
	return out.AppendBytes(b[:])
}
