package cinder

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EmissionShape samples a spawn offset and initial direction in emitter-local
// space. Offsets are relative to the system origin; directions are unit length.
type EmissionShape interface {
	Sample(r *Rand) (offset, dir mgl64.Vec3)
}

// arcDirection draws a unit direction in the XY plane within an arc.
// Arc zero or negative means a full circle; Angle rotates the arc center,
// with zero pointing along +Y.
func arcDirection(r *Rand, arc, angle float64) mgl64.Vec3 {
	if arc <= 0 {
		arc = 2 * math.Pi
	}
	theta := r.RangeF(-0.5, 0.5)*arc + angle + math.Pi/2
	return mgl64.Vec3{math.Cos(theta), math.Sin(theta), 0}
}

// PointShape spawns every particle at the origin, emitting within an arc.
type PointShape struct {
	Arc   float64 // emission arc in radians; <= 0 means full circle
	Angle float64 // arc center rotation; 0 points along +Y
}

func (s PointShape) Sample(r *Rand) (mgl64.Vec3, mgl64.Vec3) {
	return mgl64.Vec3{}, arcDirection(r, s.Arc, s.Angle)
}

// CircleShape spawns particles on a radius around the origin, moving radially
// outward within the arc. Jitter on the radius spreads spawns across a ring.
type CircleShape struct {
	Radius JitteredValue
	Arc    float64
	Angle  float64
}

func (s CircleShape) Sample(r *Rand) (mgl64.Vec3, mgl64.Vec3) {
	dir := arcDirection(r, s.Arc, s.Angle)
	return dir.Mul(s.Radius.Sample(r)), dir
}

// RectShape spawns particles uniformly inside a W x H rectangle centered on the
// origin in the XY plane, emitting within the arc.
type RectShape struct {
	W, H  float64
	Arc   float64
	Angle float64
}

func (s RectShape) Sample(r *Rand) (mgl64.Vec3, mgl64.Vec3) {
	off := mgl64.Vec3{
		r.RangeF(-0.5, 0.5) * s.W,
		r.RangeF(-0.5, 0.5) * s.H,
		0,
	}
	return off, arcDirection(r, s.Arc, s.Angle)
}

// SphereShape spawns particles on a radius around the origin with directions
// distributed uniformly over the unit sphere, for fully 3D emission.
type SphereShape struct {
	Radius JitteredValue
}

func (s SphereShape) Sample(r *Rand) (mgl64.Vec3, mgl64.Vec3) {
	// Uniform direction: z uniform in [-1,1], azimuth uniform in [0,2pi).
	z := r.RangeF(-1, 1)
	phi := r.RangeF(0, 2*math.Pi)
	xy := math.Sqrt(1 - z*z)
	dir := mgl64.Vec3{xy * math.Cos(phi), xy * math.Sin(phi), z}
	return dir.Mul(s.Radius.Sample(r)), dir
}

// ConeShape emits within HalfAngle radians of the +Y axis, spawning at the
// origin. A half angle of zero degenerates to a straight beam.
type ConeShape struct {
	HalfAngle float64
}

func (s ConeShape) Sample(r *Rand) (mgl64.Vec3, mgl64.Vec3) {
	if s.HalfAngle <= 0 {
		return mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}
	}
	// Uniform over the spherical cap around +Y.
	cosMax := math.Cos(s.HalfAngle)
	cosTheta := lerpF(cosMax, 1, r.Float64())
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := r.RangeF(0, 2*math.Pi)
	dir := mgl64.Vec3{
		math.Cos(phi) * sinTheta,
		cosTheta,
		math.Sin(phi) * sinTheta,
	}
	return mgl64.Vec3{}, dir
}
