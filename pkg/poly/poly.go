// Package poly implements the fixed-maximum-degree polynomials that carry
// drone-show trajectory segments: construction from Bezier control points,
// Horner evaluation, in-place transforms and bounded extremum/root solving
// for the low degrees that admit closed forms.
package poly

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/skybrush-io/skyb-go/pkg/errkind"
)

// MaxCoeffs is the number of coefficient slots in a Poly, limiting the
// degree to MaxCoeffs-1.
const MaxCoeffs = 8

// Poly is a univariate polynomial of degree at most 7. Coefficient 0 is the
// constant term. The zero value is not usable; construct with Zero, Constant,
// Linear or Bezier.
type Poly struct {
	coeffs [MaxCoeffs]float64
	n      int
}

// Zero returns the constant zero polynomial.
func Zero() Poly {
	return Poly{n: 1}
}

// Constant returns a polynomial that evaluates to c everywhere.
func Constant(c float64) Poly {
	p := Poly{n: 1}
	p.coeffs[0] = c
	return p
}

// Linear returns a polynomial moving from x0 at t=0 to x1 at t=duration.
// A non-positive duration yields the constant x0.
func Linear(duration, x0, x1 float64) Poly {
	if duration <= 0 {
		return Constant(x0)
	}
	p := Poly{n: 2}
	p.coeffs[0] = x0
	p.coeffs[1] = (x1 - x0) / duration
	return p
}

// Bezier converts up to MaxCoeffs Bezier control points into power-basis
// coefficients and rescales them so the polynomial is evaluated against
// physical elapsed seconds in [0, duration] instead of a normalized [0, 1]
// parameter. A non-positive duration yields the constant first control
// point.
func Bezier(points []float64, duration float64) (Poly, error) {
	n := len(points)
	if n == 0 || n > MaxCoeffs {
		return Poly{}, errkind.Errorf(errkind.InvalidArgument, "bezier control point count out of range: %d", n)
	}
	if duration <= 0 {
		return Constant(points[0]), nil
	}

	// Power basis via the explicit binomial expansion:
	//   c_j = C(deg, j) * sum_{i=0..j} (-1)^(j-i) * C(j, i) * P_i
	deg := n - 1
	p := Poly{n: n}
	for j := 0; j <= deg; j++ {
		sum := 0.0
		for i := 0; i <= j; i++ {
			term := float64(combin.Binomial(j, i)) * points[i]
			if (j-i)%2 == 1 {
				sum -= term
			} else {
				sum += term
			}
		}
		p.coeffs[j] = float64(combin.Binomial(deg, j)) * sum
	}
	p.Stretch(duration)
	return p, nil
}

// Degree returns the polynomial's nominal degree (one less than the active
// coefficient count; trailing zeros are not stripped).
func (p Poly) Degree() int {
	return p.n - 1
}

// Coeffs returns a copy of the active coefficients, constant term first.
func (p Poly) Coeffs() []float64 {
	out := make([]float64, p.n)
	copy(out, p.coeffs[:p.n])
	return out
}

// Eval evaluates the polynomial at t using Horner's rule.
func (p Poly) Eval(t float64) float64 {
	acc := 0.0
	for i := p.n - 1; i >= 0; i-- {
		acc = acc*t + p.coeffs[i]
	}
	return acc
}

// Eval32 is the single-precision variant of Eval.
func (p Poly) Eval32(t float32) float32 {
	var acc float32
	for i := p.n - 1; i >= 0; i-- {
		acc = acc*t + float32(p.coeffs[i])
	}
	return acc
}

// AddConstant shifts the polynomial's value by c everywhere.
func (p *Poly) AddConstant(c float64) {
	p.coeffs[0] += c
}

// Scale multiplies every coefficient by f.
func (p *Poly) Scale(f float64) {
	for i := 0; i < p.n; i++ {
		p.coeffs[i] *= f
	}
}

// Stretch rescales the time axis by factor, so that the stretched
// polynomial at t equals the original at t/factor. Coefficient k is
// multiplied by factor^-k.
func (p *Poly) Stretch(factor float64) {
	scale := 1.0
	inv := 1.0 / factor
	for i := 1; i < p.n; i++ {
		scale *= inv
		p.coeffs[i] *= scale
	}
}

// Derive replaces the polynomial with its derivative in place.
func (p *Poly) Derive() {
	if p.n <= 1 {
		p.coeffs[0] = 0
		return
	}
	for i := 1; i < p.n; i++ {
		p.coeffs[i-1] = p.coeffs[i] * float64(i)
	}
	p.n--
	p.coeffs[p.n] = 0
}

// isZero reports whether all active coefficients are exactly zero.
func (p Poly) isZero() bool {
	for i := 0; i < p.n; i++ {
		if p.coeffs[i] != 0 {
			return false
		}
	}
	return true
}

// effectiveDegree returns the degree after stripping trailing zero
// coefficients.
func (p Poly) effectiveDegree() int {
	for i := p.n - 1; i > 0; i-- {
		if p.coeffs[i] != 0 {
			return i
		}
	}
	return 0
}
