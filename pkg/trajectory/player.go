package trajectory

import "io"

// Player is a stateful cursor over a Trajectory that answers position,
// velocity and acceleration queries at arbitrary times. Sequential,
// monotonically increasing queries are amortized O(1): as long as the
// queried time stays within the cached segment, no bytes are touched.
// A backward query rewinds to the first segment and scans forward again,
// since segment records cannot be decoded in isolation; arbitrary access
// is therefore bounded by the segment count. Query order never affects
// results.
//
// A Player is not safe for concurrent use; clone it instead.
type Player struct {
	traj *Trajectory
	cur  cursor
}

// seekState classifies where a queried time fell relative to the
// trajectory after seeking.
type seekState int

const (
	seekInSegment seekState = iota
	seekBeforeStart
	seekPastEnd
	seekNoSegments
)

// Trajectory returns the trajectory the player plays.
func (p *Player) Trajectory() *Trajectory {
	return p.traj
}

// Clone returns an independent player with an identical cursor: same
// segment, same decoded polynomial, same position in time. Both players
// share the underlying trajectory.
func (p *Player) Clone() *Player {
	clone := *p
	return &clone
}

// PositionAt returns the position at t seconds from the trajectory start.
// Times before the start clamp to the first segment's start value; times at
// or past the total duration clamp to the last segment's end value. The
// empty trajectory is stationary at the origin.
func (p *Player) PositionAt(t float64) (Vector4, error) {
	state, local, err := p.seek(t)
	if err != nil {
		return Vector4{}, err
	}
	switch state {
	case seekNoSegments:
		return p.traj.start, nil
	case seekBeforeStart:
		local = 0
	case seekPastEnd:
		local = p.cur.durSec()
	}
	x, y, z, yaw := p.cur.poly.Eval(local)
	return Vector4{X: x, Y: y, Z: z, Yaw: yaw}, nil
}

// VelocityAt returns the velocity at t seconds from the trajectory start,
// in mm/s (deg/s for yaw). Velocity is zero outside the trajectory's time
// range and everywhere on an empty trajectory.
func (p *Player) VelocityAt(t float64) (Vector4, error) {
	return p.derivativeAt(t, 1)
}

// AccelerationAt returns the acceleration at t seconds from the trajectory
// start, in mm/s² (deg/s² for yaw). Acceleration is zero outside the
// trajectory's time range and everywhere on an empty trajectory.
func (p *Player) AccelerationAt(t float64) (Vector4, error) {
	return p.derivativeAt(t, 2)
}

// derivativeAt evaluates the order-th derivative of the current segment's
// polynomial. The cached polynomial is never mutated; differentiation
// works on a copy.
func (p *Player) derivativeAt(t float64, order int) (Vector4, error) {
	state, local, err := p.seek(t)
	if err != nil {
		return Vector4{}, err
	}
	if state != seekInSegment {
		return Vector4{}, nil
	}
	deriv := p.cur.poly
	for i := 0; i < order; i++ {
		deriv.Derive()
	}
	x, y, z, yaw := deriv.Eval(local)
	return Vector4{X: x, Y: y, Z: z, Yaw: yaw}, nil
}

// seek positions the cursor on the segment containing time t, per the
// reuse-else-rewind-or-scan policy: the cached segment is reused when t
// falls inside it; earlier times restart decoding from the first segment;
// later times continue scanning forward from the current position.
func (p *Player) seek(t float64) (seekState, float64, error) {
	c := &p.cur

	if !c.valid {
		if err := c.advance(); err != nil {
			if err == io.EOF {
				return seekNoSegments, 0, nil
			}
			return 0, 0, err
		}
	}

	if t < c.startSec() {
		c.rewind()
		if err := c.advance(); err != nil {
			if err == io.EOF {
				return seekNoSegments, 0, nil
			}
			return 0, 0, err
		}
		if t < c.startSec() {
			return seekBeforeStart, 0, nil
		}
	}

	for t >= c.endSec() {
		if err := c.advance(); err != nil {
			if err == io.EOF {
				return seekPastEnd, 0, nil
			}
			return 0, 0, err
		}
	}
	return seekInSegment, t - c.startSec(), nil
}
