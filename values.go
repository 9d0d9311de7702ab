package cinder

import (
	"fmt"
	"math"
)

// JitteredValue is a scalar with optional uniform random jitter added on each
// sample. A zero jitter range means the base value is returned unchanged.
//
// The jitter range may start below zero to produce values under the base.
type JitteredValue struct {
	Base      float64
	JitterMin float64
	JitterMax float64
}

// Value returns a JitteredValue with no jitter.
func Value(base float64) JitteredValue {
	return JitteredValue{Base: base}
}

// Jittered returns a JitteredValue that samples uniformly in [base+lo, base+hi].
func Jittered(base, lo, hi float64) JitteredValue {
	return JitteredValue{Base: base, JitterMin: lo, JitterMax: hi}
}

// Sample draws the value. The RNG is not touched when no jitter is configured.
func (j JitteredValue) Sample(r *Rand) float64 {
	if j.JitterMin == 0 && j.JitterMax == 0 {
		return j.Base
	}
	return j.Base + r.RangeF(j.JitterMin, j.JitterMax)
}

func (j JitteredValue) validate(field string) error {
	if j.JitterMin > j.JitterMax {
		return fmt.Errorf("%s: jitter range inverted (%g > %g)", field, j.JitterMin, j.JitterMax)
	}
	return nil
}

// Scalar is a value evaluated against normalized lifetime progress in [0,1].
type Scalar interface {
	Eval(progress float64) float64
}

// CurvePoint is one control point of a piecewise-linear Curve.
type CurvePoint struct {
	At    float64 // progress in [0,1], ascending
	Value float64
}

// Curve is a piecewise-linear function of lifetime progress. Points must be
// sorted ascending by At; evaluation clamps outside the first and last point.
type Curve []CurvePoint

// NewCurve validates the control points. At least one point is required so a
// misconfigured curve fails at construction rather than evaluating to zero.
func NewCurve(points ...CurvePoint) (Curve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("curve: at least one control point required")
	}
	for i := 1; i < len(points); i++ {
		if points[i].At < points[i-1].At {
			return nil, fmt.Errorf("curve: control points not sorted at index %d (%g < %g)",
				i, points[i].At, points[i-1].At)
		}
	}
	return Curve(points), nil
}

// Constant returns a single-point Curve that always evaluates to v.
func Constant(v float64) Curve {
	return Curve{{At: 0, Value: v}}
}

// Ramp returns a two-point Curve moving linearly from a to b over the lifetime.
func Ramp(a, b float64) Curve {
	return Curve{{At: 0, Value: a}, {At: 1, Value: b}}
}

func (c Curve) Eval(progress float64) float64 {
	if len(c) == 1 {
		return c[0].Value
	}
	p := clampF(progress, 0, 1)
	if p <= c[0].At {
		return c[0].Value
	}
	last := len(c) - 1
	if p >= c[last].At {
		return c[last].Value
	}
	for i := 0; i < last; i++ {
		p0, p1 := c[i], c[i+1]
		if p > p1.At {
			continue
		}
		if p1.At == p0.At {
			return p0.Value
		}
		t := (p - p0.At) / (p1.At - p0.At)
		return lerpF(p0.Value, p1.Value, t)
	}
	return c[last].Value
}

// SineCurve evaluates a sinusoidal wave over the lifetime. With the zero value
// adjusted to Amplitude: 1, Period: 1 it completes one full 0 -> 1 -> 0 -> -1 -> 0
// wave across the lifetime.
type SineCurve struct {
	Amplitude     float64
	Period        float64 // full waves per lifetime
	PhaseShift    float64 // radians
	VerticalShift float64
}

func (s SineCurve) Eval(progress float64) float64 {
	p := clampF(progress, 0, 1)
	return s.Amplitude*math.Sin(s.Period*(p*2*math.Pi)-s.PhaseShift) + s.VerticalShift
}

// RGBA is a straight-alpha color with components in [0,1].
type RGBA struct {
	R, G, B, A float32
}

func lerpRGBA(a, b RGBA, t float64) RGBA {
	ct := clampF(t, 0, 1)
	return RGBA{
		R: float32(lerpF(float64(a.R), float64(b.R), ct)),
		G: float32(lerpF(float64(a.G), float64(b.G), ct)),
		B: float32(lerpF(float64(a.B), float64(b.B), ct)),
		A: float32(lerpF(float64(a.A), float64(b.A), ct)),
	}
}

// ColorPoint is one control point of a Gradient.
type ColorPoint struct {
	At    float64
	Color RGBA
}

// Gradient is a piecewise-linear color ramp over lifetime progress. Channels
// interpolate independently, alpha included.
type Gradient []ColorPoint

// NewGradient validates the color points under the same rules as NewCurve.
func NewGradient(points ...ColorPoint) (Gradient, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("gradient: at least one color point required")
	}
	for i := 1; i < len(points); i++ {
		if points[i].At < points[i-1].At {
			return nil, fmt.Errorf("gradient: color points not sorted at index %d (%g < %g)",
				i, points[i].At, points[i-1].At)
		}
	}
	return Gradient(points), nil
}

// Solid returns a single-point Gradient of a constant color.
func Solid(c RGBA) Gradient {
	return Gradient{{At: 0, Color: c}}
}

func (g Gradient) Eval(progress float64) RGBA {
	if len(g) == 1 {
		return g[0].Color
	}
	p := clampF(progress, 0, 1)
	if p <= g[0].At {
		return g[0].Color
	}
	last := len(g) - 1
	if p >= g[last].At {
		return g[last].Color
	}
	for i := 0; i < last; i++ {
		p0, p1 := g[i], g[i+1]
		if p > p1.At {
			continue
		}
		if p1.At == p0.At {
			return p0.Color
		}
		return lerpRGBA(p0.Color, p1.Color, (p-p0.At)/(p1.At-p0.At))
	}
	return g[last].Color
}
