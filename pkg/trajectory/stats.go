package trajectory

import (
	"errors"
	"io"
	"math"
	"time"

	"github.com/skybrush-io/skyb-go/pkg/errkind"
	"github.com/skybrush-io/skyb-go/pkg/poly"
)

// Stat is a bitmask selecting which statistics a calculator computes.
type Stat uint8

const (
	// StatNone computes nothing beyond the structural walk.
	StatNone Stat = 0
	// StatDuration computes the total duration.
	StatDuration Stat = 1 << iota
	// StatStartEndDistance computes the XY distance between the first and
	// last point.
	StatStartEndDistance
	// StatTakeoffTime computes the proposed takeoff command time.
	StatTakeoffTime
	// StatLandingTime computes the proposed landing command time and the
	// state at that time.
	StatLandingTime

	// StatAll computes everything.
	StatAll = StatDuration | StatStartEndDistance | StatTakeoffTime | StatLandingTime
)

// Stats is the value object produced by one calculator run. Infeasible
// proposals are encoded as extremal times: +Inf for takeoff (never take
// off), -Inf for landing (land immediately).
type Stats struct {
	// Duration is the total trajectory duration.
	Duration time.Duration
	// Bounds is the axis-aligned bounding box of the path, in mm.
	Bounds BoundingBox
	// EarliestAboveTakeoff is the earliest time, in seconds, at which the
	// path rises MinAscent above its start altitude; +Inf if it never does.
	EarliestAboveTakeoff float64
	// ProposedTakeoffTime is the time, in seconds, at which a takeoff
	// command reaches the threshold altitude exactly when the trajectory
	// requires it. May be negative (command before show start).
	ProposedTakeoffTime float64
	// ProposedLandingTime is the time, in seconds, at which a landing
	// command should be issued, mirrored from the trajectory tail.
	ProposedLandingTime float64
	// LandingPosition and LandingVelocity sample the trajectory at the
	// proposed landing time; zero when the proposal is infeasible.
	LandingPosition Vector4
	LandingVelocity Vector4
	// StartEndDistanceXY is the horizontal distance between the first and
	// last point, in mm.
	StartEndDistanceXY float64
	// TakeoffVertical and LandingVertical report whether the path stays
	// within VerticalityThreshold of the start (resp. end) XY position
	// until the takeoff threshold crossing (resp. from the landing
	// threshold crossing on).
	TakeoffVertical bool
	LandingVertical bool
}

// StatsCalculator derives feasibility statistics from a trajectory in one
// streaming pass over its segments. The zero value is not useful; start
// from NewStatsCalculator and adjust fields.
type StatsCalculator struct {
	// Components selects the statistics to compute.
	Components Stat
	// TakeoffSpeed is the assumed vertical cruise speed, mm/s.
	TakeoffSpeed float64
	// Acceleration is the assumed vertical acceleration, mm/s².
	Acceleration float64
	// MinAscent is the ascent above the start altitude that triggers a
	// takeoff proposal, mm.
	MinAscent float64
	// PreferredDescent is the descent length assumed for landing, mm.
	PreferredDescent float64
	// VerticalityThreshold is the maximum XY deviation, in mm, for a
	// takeoff or landing leg to be classified as near-vertical.
	VerticalityThreshold float64
}

// NewStatsCalculator returns a calculator with conservative defaults:
// all statistics, 2 m/s takeoff speed, 4 m/s² acceleration, 2.5 m minimum
// ascent, 5 m preferred descent, 50 mm verticality threshold.
func NewStatsCalculator() *StatsCalculator {
	return &StatsCalculator{
		Components:           StatAll,
		TakeoffSpeed:         2000,
		Acceleration:         4000,
		MinAscent:            2500,
		PreferredDescent:     5000,
		VerticalityThreshold: 50,
	}
}

// segmentSummary is the compact per-segment digest kept by the streaming
// pass: enough to refine threshold crossings without holding raw bytes.
type segmentSummary struct {
	startSec float64
	durSec   float64
	start    Vector4
	end      Vector4
	z        poly.Poly
	x        poly.Poly
	y        poly.Poly
}

// Run analyzes the trajectory and returns a fresh Stats value. Degenerate
// configurations (non-positive speed or acceleration) are not errors; they
// surface as infeasible proposals.
func (sc *StatsCalculator) Run(t *Trajectory) (*Stats, error) {
	stats := &Stats{
		EarliestAboveTakeoff: math.Inf(1),
		ProposedTakeoffTime:  math.Inf(1),
		ProposedLandingTime:  math.Inf(-1),
	}

	var (
		summaries []segmentSummary
		totalMs   int64
	)
	start := t.start
	end := t.start
	stats.Bounds = BoundingBox{
		Min: Vector3{X: start.X, Y: start.Y, Z: start.Z},
		Max: Vector3{X: start.X, Y: start.Y, Z: start.Z},
	}

	collectBounds := sc.Components != StatNone
	collectSummaries := sc.Components&(StatTakeoffTime|StatLandingTime) != 0

	c := newCursor(t)
	for {
		err := c.advance()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		totalMs += int64(c.durMs)
		end = c.end
		if collectBounds {
			sc.expandBounds(&stats.Bounds, &c)
		}
		if collectSummaries {
			summaries = append(summaries, segmentSummary{
				startSec: c.startSec(),
				durSec:   c.durSec(),
				start:    c.start,
				end:      c.end,
				x:        c.poly.X,
				y:        c.poly.Y,
				z:        c.poly.Z,
			})
		}
	}

	if sc.Components&StatDuration != 0 {
		stats.Duration = time.Duration(totalMs) * time.Millisecond
	}
	if sc.Components&StatStartEndDistance != 0 {
		stats.StartEndDistanceXY = math.Hypot(end.X-start.X, end.Y-start.Y)
	}
	if sc.Components&StatTakeoffTime != 0 {
		sc.computeTakeoff(stats, summaries, start)
	}
	if sc.Components&StatLandingTime != 0 {
		sc.computeLanding(stats, summaries, end, t)
	}
	return stats, nil
}

// expandBounds grows the bounding box by the segment's extrema where the
// closed-form solver applies, falling back to the segment endpoints for
// higher degrees.
func (sc *StatsCalculator) expandBounds(b *BoundingBox, c *cursor) {
	axis := func(p poly.Poly) (float64, float64) {
		if c.durMs > 0 {
			local := p
			local.Stretch(1 / c.durSec()) // remap [0, dur] onto [0, 1]
			if min, max, err := local.ExtremaOn01(); err == nil {
				return min, max
			}
		}
		lo, hi := p.Eval(0), p.Eval(c.durSec())
		return math.Min(lo, hi), math.Max(lo, hi)
	}
	minX, maxX := axis(c.poly.X)
	minY, maxY := axis(c.poly.Y)
	minZ, maxZ := axis(c.poly.Z)
	b.expand(minX, minY, minZ)
	b.expand(maxX, maxY, maxZ)
}

// computeTakeoff finds the earliest time the path climbs MinAscent above
// its start altitude and backs the three-phase climb model out of it.
func (sc *StatsCalculator) computeTakeoff(stats *Stats, summaries []segmentSummary, start Vector4) {
	target := start.Z + sc.MinAscent
	for _, seg := range summaries {
		crossSec, ok := earliestAtOrAbove(seg.z, seg.durSec, target)
		if !ok {
			continue
		}
		tCross := seg.startSec + crossSec
		stats.EarliestAboveTakeoff = tCross
		stats.TakeoffVertical = maxXYDeviationBefore(summaries, start, tCross) <= sc.VerticalityThreshold
		climb := climbDuration(sc.MinAscent, sc.TakeoffSpeed, sc.Acceleration)
		if math.IsInf(climb, 1) {
			return // leaves the +Inf default: never take off
		}
		stats.ProposedTakeoffTime = tCross - climb
		return
	}
}

// computeLanding is the time-reversed mirror of computeTakeoff: it finds
// the latest time the path is still PreferredDescent above its end
// altitude and adds the modeled descent duration.
func (sc *StatsCalculator) computeLanding(stats *Stats, summaries []segmentSummary, end Vector4, t *Trajectory) {
	target := end.Z + sc.PreferredDescent
	for i := len(summaries) - 1; i >= 0; i-- {
		seg := summaries[i]
		crossSec, ok := latestAtOrAbove(seg.z, seg.durSec, target)
		if !ok {
			continue
		}
		tCross := seg.startSec + crossSec
		descent := climbDuration(sc.PreferredDescent, sc.TakeoffSpeed, sc.Acceleration)
		if math.IsInf(descent, 1) {
			return // leaves the -Inf default: land immediately
		}
		proposed := tCross + descent
		stats.ProposedLandingTime = proposed
		stats.LandingVertical = maxXYDeviationAfter(summaries, end, tCross) <= sc.VerticalityThreshold

		player := t.NewPlayer()
		if pos, err := player.PositionAt(proposed); err == nil {
			stats.LandingPosition = pos
		}
		if vel, err := player.VelocityAt(proposed); err == nil {
			stats.LandingVelocity = vel
		}
		return
	}
}

// climbDuration models a rest-to-rest vertical move over distance mm at
// cruise speed mm/s and acceleration mm/s²: accelerate, cruise, decelerate.
// When the distance is too short to reach cruise speed the profile is
// triangular. Invalid inputs are infeasible, not errors.
func climbDuration(distance, speed, acceleration float64) float64 {
	if distance < 0 || speed <= 0 || acceleration <= 0 ||
		math.IsNaN(distance) || math.IsNaN(speed) || math.IsNaN(acceleration) {
		return math.Inf(1)
	}
	if distance == 0 {
		return 0
	}
	if math.IsInf(acceleration, 1) {
		return distance / speed
	}
	if accelDistance := speed * speed / acceleration; distance < accelDistance {
		return 2 * math.Sqrt(distance/acceleration)
	}
	return distance/speed + speed/acceleration
}

// crossingSamples bounds the sampling grid used when no closed-form root
// is available for a threshold crossing.
const crossingSamples = 64

// earliestAtOrAbove returns the earliest local time in [0, dur] at which p
// reaches target, if any. Closed-form roots are used through degree 2;
// above that the segment is sampled and the bracket refined by bisection.
func earliestAtOrAbove(p poly.Poly, dur, target float64) (float64, bool) {
	shifted := p
	shifted.AddConstant(-target)

	if p.Eval(0) >= target {
		return 0, true
	}
	if dur <= 0 {
		return 0, false
	}

	normalized := shifted
	normalized.Stretch(1 / dur)
	if roots, err := normalized.RootsOn01(); err == nil {
		for _, r := range roots {
			if t := r * dur; p.Eval(t) >= target-1e-9 {
				return t, true
			}
		}
		return 0, false
	} else if !errors.Is(err, errkind.ErrUnimplemented) {
		return 0, false
	}

	// No closed form: bracket the first sign change, then bisect.
	prev := 0.0
	for i := 1; i <= crossingSamples; i++ {
		t := dur * float64(i) / crossingSamples
		if shifted.Eval(t) >= 0 {
			return bisectCrossing(shifted, prev, t), true
		}
		prev = t
	}
	return 0, false
}

// latestAtOrAbove returns the latest local time in [0, dur] at which p is
// still at or above target, if any; the mirror of earliestAtOrAbove.
func latestAtOrAbove(p poly.Poly, dur, target float64) (float64, bool) {
	shifted := p
	shifted.AddConstant(-target)

	if p.Eval(dur) >= target {
		return dur, true
	}
	if dur <= 0 {
		return 0, false
	}

	normalized := shifted
	normalized.Stretch(1 / dur)
	if roots, err := normalized.RootsOn01(); err == nil {
		for i := len(roots) - 1; i >= 0; i-- {
			if t := roots[i] * dur; p.Eval(t) >= target-1e-9 {
				return t, true
			}
		}
		return 0, false
	} else if !errors.Is(err, errkind.ErrUnimplemented) {
		return 0, false
	}

	prev := dur
	for i := crossingSamples - 1; i >= 0; i-- {
		t := dur * float64(i) / crossingSamples
		if shifted.Eval(t) >= 0 {
			return bisectCrossing(shifted, prev, t), true
		}
		prev = t
	}
	return 0, false
}

// bisectCrossing refines a sign change of p between outside (negative) and
// inside (non-negative) to a small fixed tolerance.
func bisectCrossing(p poly.Poly, outside, inside float64) float64 {
	for i := 0; i < 48; i++ {
		mid := (outside + inside) / 2
		if p.Eval(mid) >= 0 {
			inside = mid
		} else {
			outside = mid
		}
	}
	return inside
}

// maxXYDeviationBefore returns the largest sampled XY distance from origin
// over [0, limit].
func maxXYDeviationBefore(summaries []segmentSummary, origin Vector4, limit float64) float64 {
	worst := 0.0
	for _, seg := range summaries {
		if seg.startSec >= limit {
			break
		}
		segEnd := math.Min(seg.durSec, limit-seg.startSec)
		worst = math.Max(worst, maxXYDeviationOn(seg, origin, 0, segEnd))
	}
	return worst
}

// maxXYDeviationAfter returns the largest sampled XY distance from origin
// over [limit, end of trajectory].
func maxXYDeviationAfter(summaries []segmentSummary, origin Vector4, limit float64) float64 {
	worst := 0.0
	for _, seg := range summaries {
		if seg.startSec+seg.durSec <= limit {
			continue
		}
		from := math.Max(0, limit-seg.startSec)
		worst = math.Max(worst, maxXYDeviationOn(seg, origin, from, seg.durSec))
	}
	return worst
}

// maxXYDeviationOn samples one segment's horizontal deviation from origin
// on the local interval [from, to]. Sampling suffices here: the threshold
// classifies legs, it does not steer them.
func maxXYDeviationOn(seg segmentSummary, origin Vector4, from, to float64) float64 {
	worst := 0.0
	const steps = 16
	for i := 0; i <= steps; i++ {
		t := from + (to-from)*float64(i)/steps
		d := math.Hypot(seg.x.Eval(t)-origin.X, seg.y.Eval(t)-origin.Y)
		worst = math.Max(worst, d)
	}
	return worst
}
