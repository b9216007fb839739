package poly

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

const solveTol = 1e-10

// RootsOn01 returns the real roots of the polynomial that lie in [0, 1],
// in ascending order. Only degrees 0 to 2 have closed forms; higher
// effective degrees report an unimplemented error rather than attempting a
// numerically unstable general solver.
func (p Poly) RootsOn01() ([]float64, error) {
	switch p.effectiveDegree() {
	case 0:
		// Identically zero counts as rooted everywhere; report t=0.
		if p.isZero() {
			return []float64{0}, nil
		}
		return nil, nil
	case 1:
		root := -p.coeffs[0] / p.coeffs[1]
		return clampRoots(root), nil
	case 2:
		r1, r2, ok := quadraticRoots(p.coeffs[2], p.coeffs[1], p.coeffs[0])
		if !ok {
			return nil, nil
		}
		return clampRoots(r1, r2), nil
	default:
		return nil, errkind.Errorf(errkind.Unimplemented, "no closed-form roots for degree %d", p.effectiveDegree())
	}
}

// ExtremaOn01 returns the minimum and maximum of the polynomial over
// [0, 1], considering the endpoints and any interior stationary points.
// Closed forms exist only up to degree 3; higher effective degrees report
// an unimplemented error.
func (p Poly) ExtremaOn01() (min, max float64, err error) {
	if p.effectiveDegree() > 3 {
		return 0, 0, errkind.Errorf(errkind.Unimplemented, "no closed-form extrema for degree %d", p.effectiveDegree())
	}

	min = p.Eval(0)
	max = min
	consider := func(v float64) {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	consider(p.Eval(1))

	deriv := p
	deriv.Derive()
	roots, err := deriv.RootsOn01()
	if err != nil {
		return 0, 0, err
	}
	for _, r := range roots {
		consider(p.Eval(r))
	}
	return min, max, nil
}

// quadraticRoots solves a*x^2 + b*x + c = 0, degrading to the linear case
// when a vanishes. The citardauq-style formulation avoids cancellation
// between -b and the discriminant.
func quadraticRoots(a, b, c float64) (r1, r2 float64, ok bool) {
	if scalar.EqualWithinAbs(a, 0, solveTol) {
		if scalar.EqualWithinAbs(b, 0, solveTol) {
			return 0, 0, false
		}
		r := -c / b
		return r, r, true
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -(b + sq) / 2
	} else {
		q = -(b - sq) / 2
	}
	r1 = q / a
	if q != 0 {
		r2 = c / q
	} else {
		r2 = 0
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return r1, r2, true
}

// clampRoots keeps the candidates that fall in [0, 1] (within tolerance),
// snapped to the interval, sorted and deduplicated.
func clampRoots(candidates ...float64) []float64 {
	var out []float64
	for _, r := range candidates {
		if r < -solveTol || r > 1+solveTol {
			continue
		}
		out = append(out, math.Min(math.Max(r, 0), 1))
	}
	sort.Float64s(out)
	n := 0
	for i, r := range out {
		if i > 0 && scalar.EqualWithinAbs(r, out[n-1], solveTol) {
			continue
		}
		out[n] = r
		n++
	}
	return out[:n]
}
