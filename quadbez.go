package conveyor

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// QuadBez is a quadratic Bézier curve in 3D space. P0 and P2 are the anchors,
// P1 is the control point.
type QuadBez struct {
	P0 r3.Vec
	P1 r3.Vec
	P2 r3.Vec
}

// IsInf reports whether any control point has an infinite coordinate.
func (q QuadBez) IsInf() bool {
	return Point{Pos: q.P0}.IsInf() || Point{Pos: q.P1}.IsInf() || Point{Pos: q.P2}.IsInf()
}

// IsNaN reports whether any control point has a NaN coordinate.
func (q QuadBez) IsNaN() bool {
	return Point{Pos: q.P0}.IsNaN() || Point{Pos: q.P1}.IsNaN() || Point{Pos: q.P2}.IsNaN()
}

// Eval evaluates the curve at t using De Casteljau's construction,
// lerp(lerp(P0, P1, t), lerp(P1, P2, t), t).
func (q QuadBez) Eval(t float64) r3.Vec {
	p01 := Lerp(q.P0, q.P1, t)
	p12 := Lerp(q.P1, q.P2, t)
	return Lerp(p01, p12, t)
}

// Sample returns steps positions at t = i/steps for i ∈ [0, steps).
func (q QuadBez) Sample(steps int) ([]r3.Vec, error) {
	if steps <= 0 {
		return nil, ErrInvalidStepCount
	}
	out := make([]r3.Vec, steps)
	for i := range steps {
		out[i] = q.Eval(float64(i) / float64(steps))
	}
	return out, nil
}

// Tangents returns the start and end tangents. When the control point
// coincides with an anchor, the chord is used instead.
func (q QuadBez) Tangents() (r3.Vec, r3.Vec) {
	const epsilon = 1e-12
	d01 := r3.Sub(q.P1, q.P0)
	var d0, d1 r3.Vec
	if r3.Norm2(d01) > epsilon {
		d0 = d01
	} else {
		d0 = r3.Sub(q.P2, q.P0)
	}
	d12 := r3.Sub(q.P2, q.P1)
	if r3.Norm2(d12) > epsilon {
		d1 = d12
	} else {
		d1 = r3.Sub(q.P2, q.P0)
	}
	return d0, d1
}

// Arclen returns the arclength of the curve.
//
// This computation is based on an analytical formula. Since that formula suffers
// from numerical instability when the curve is very close to a straight line, we
// detect that case and fall back to Legendre-Gauss quadrature.
func (q QuadBez) Arclen() float64 {
	d2 := r3.Add(r3.Sub(q.P0, r3.Scale(2, q.P1)), q.P2)
	a := r3.Norm2(d2)
	d1 := r3.Sub(q.P1, q.P0)
	c := r3.Norm2(d1)
	if a < 5e-4*c {
		// Nearly straight. Three-point Legendre-Gauss quadrature, see
		// https://github.com/Pomax/BezierInfo-2/issues/77
		v0 := r3.Norm(r3.Add(r3.Add(
			r3.Scale(-0.492943519233745, q.P0),
			r3.Scale(0.430331482911935, q.P1)),
			r3.Scale(0.0626120363218102, q.P2)))
		v1 := r3.Norm(r3.Scale(0.4444444444444444, r3.Sub(q.P2, q.P0)))
		v2 := r3.Norm(r3.Add(r3.Sub(
			r3.Scale(-0.0626120363218102, q.P0),
			r3.Scale(0.430331482911935, q.P1)),
			r3.Scale(0.492943519233745, q.P2)))
		return v0 + v1 + v2
	}
	b := 2.0 * r3.Dot(d2, d1)

	sabc := math.Sqrt(a + b + c)
	a2 := math.Pow(a, -0.5)
	a32 := a2 * a2 * a2
	c2 := 2.0 * math.Sqrt(c)
	baC2 := b*a2 + c2

	v0 := 0.25*a2*a2*b*(2.0*sabc-c2) + sabc
	if baC2 < 1e-13 {
		// Sharp kink.
		return v0
	}
	return v0 + 0.25*a32*(4.0*c*a-b*b)*math.Log(((2.0*a+b)*a2+2.0*sabc)/baC2)
}

// Nearest finds the parameter of the point on the curve nearest to pt, and the
// squared distance to it. It solves for the roots of the derivative of the
// squared distance, which is a cubic in t, and falls back to the endpoints
// when no root lies in [0, 1].
func (q QuadBez) Nearest(pt r3.Vec) (distSq, outT float64) {
	var rBest option[float64]
	tBest := 0.0
	evalT := func(t float64, p r3.Vec) {
		r := r3.Norm2(r3.Sub(p, pt))
		if !rBest.isSet || r < rBest.value {
			rBest.set(r)
			tBest = t
		}
	}

	d0 := r3.Sub(q.P1, q.P0)
	d1 := r3.Sub(r3.Add(q.P0, q.P2), r3.Scale(2, q.P1))
	d := r3.Sub(q.P0, pt)
	c0 := r3.Dot(d, d0)
	c1 := 2.0*r3.Norm2(d0) + r3.Dot(d, d1)
	c2 := 3.0 * r3.Dot(d1, d0)
	c3 := r3.Norm2(d1)
	roots, n := SolveCubic(c0, c1, c2, c3)
	needEnds := n == 0
	for _, t := range roots[:n] {
		if !(t >= 0.0 && t <= 1.0) {
			needEnds = true
			continue
		}
		evalT(t, q.Eval(t))
	}
	if needEnds {
		evalT(0.0, q.P0)
		evalT(1.0, q.P2)
	}
	return rBest.value, tBest
}
