package poly

// Poly4D bundles four independent polynomials for the x, y, z and yaw
// channels of a trajectory segment, sharing one time parametrization in
// seconds from the segment's start.
type Poly4D struct {
	X   Poly
	Y   Poly
	Z   Poly
	Yaw Poly
}

// Constant4D returns a Poly4D that holds the given channel values.
func Constant4D(x, y, z, yaw float64) Poly4D {
	return Poly4D{X: Constant(x), Y: Constant(y), Z: Constant(z), Yaw: Constant(yaw)}
}

// Eval evaluates all four channels at t.
func (p Poly4D) Eval(t float64) (x, y, z, yaw float64) {
	return p.X.Eval(t), p.Y.Eval(t), p.Z.Eval(t), p.Yaw.Eval(t)
}

// AddConstant shifts each channel by the matching constant.
func (p *Poly4D) AddConstant(x, y, z, yaw float64) {
	p.X.AddConstant(x)
	p.Y.AddConstant(y)
	p.Z.AddConstant(z)
	p.Yaw.AddConstant(yaw)
}

// Scale multiplies every coefficient of every channel by f.
func (p *Poly4D) Scale(f float64) {
	p.X.Scale(f)
	p.Y.Scale(f)
	p.Z.Scale(f)
	p.Yaw.Scale(f)
}

// Stretch rescales the time axis of every channel by factor.
func (p *Poly4D) Stretch(factor float64) {
	p.X.Stretch(factor)
	p.Y.Stretch(factor)
	p.Z.Stretch(factor)
	p.Yaw.Stretch(factor)
}

// Derive replaces every channel with its derivative in place.
func (p *Poly4D) Derive() {
	p.X.Derive()
	p.Y.Derive()
	p.Z.Derive()
	p.Yaw.Derive()
}
