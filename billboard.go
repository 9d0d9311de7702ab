package cinder

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerate-direction threshold for view vectors and projected velocities
const dirEpsilon = 1e-9

// AlignMode resolves a particle's world transform against a camera into a
// billboard basis. Resolve returns unit right/up vectors for the quad plane
// and the final quad rotation in radians (the particle's own rotation plus
// any alignment-derived contribution).
//
// Implementations must never return NaN; degenerate inputs fall back to the
// camera's own basis.
type AlignMode interface {
	Resolve(pos, vel mgl64.Vec3, rotation float64, cam *CameraBasis) (right, up mgl64.Vec3, rot float64)
}

// AlignNone keeps quads in the world XY plane with no camera facing.
type AlignNone struct{}

func (AlignNone) Resolve(pos, vel mgl64.Vec3, rotation float64, cam *CameraBasis) (mgl64.Vec3, mgl64.Vec3, float64) {
	return mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, rotation
}

// FaceCamera orients each quad perpendicular to the vector from the particle
// to the camera.
type FaceCamera struct{}

func (FaceCamera) Resolve(pos, vel mgl64.Vec3, rotation float64, cam *CameraBasis) (mgl64.Vec3, mgl64.Vec3, float64) {
	right, up := faceCameraBasis(pos, cam)
	return right, up, rotation
}

func faceCameraBasis(pos mgl64.Vec3, cam *CameraBasis) (mgl64.Vec3, mgl64.Vec3) {
	view := cam.Position.Sub(pos)
	if view.Len() < dirEpsilon {
		// Particle sits on the camera; no view direction exists.
		return cam.screenBasis()
	}
	viewDir := view.Normalize()
	right := cam.Up.Cross(viewDir)
	if right.Len() < dirEpsilon {
		// Looking straight along the camera up axis.
		return cam.screenBasis()
	}
	right = right.Normalize()
	up := viewDir.Cross(right)
	return right, up
}

// VelocityAligned rotates each quad so its axis follows the particle's
// velocity as seen on screen. The velocity is projected through the camera's
// view-projection (post perspective divide, NDC space); the signed angle
// between the projected velocity and Axis is added to the particle rotation
// before the camera-facing basis is applied. Near-zero projected velocity
// contributes no rotation.
type VelocityAligned struct {
	Axis mgl64.Vec2 // screen-space reference axis; zero value means +Y
}

func (a VelocityAligned) Resolve(pos, vel mgl64.Vec3, rotation float64, cam *CameraBasis) (mgl64.Vec3, mgl64.Vec3, float64) {
	right, up := faceCameraBasis(pos, cam)
	rot := rotation + a.screenAngle(pos, vel, cam)
	return right, up, rot
}

func (a VelocityAligned) screenAngle(pos, vel mgl64.Vec3, cam *CameraBasis) float64 {
	if vel.Len() < dirEpsilon {
		return 0
	}
	from, ok := cam.project(pos)
	if !ok {
		return 0
	}
	to, ok := cam.project(pos.Add(vel))
	if !ok {
		return 0
	}
	d := to.Sub(from)
	if d.Len() < dirEpsilon {
		return 0
	}
	axis := a.Axis
	if axis.X() == 0 && axis.Y() == 0 {
		axis = mgl64.Vec2{0, 1}
	}
	return math.Atan2(d.Y(), d.X()) - math.Atan2(axis.Y(), axis.X())
}

// ScreenLocked derives right/up from the inverse view-projection columns,
// independent of particle position. Cheapest mode; all quads share one basis.
type ScreenLocked struct{}

func (ScreenLocked) Resolve(pos, vel mgl64.Vec3, rotation float64, cam *CameraBasis) (mgl64.Vec3, mgl64.Vec3, float64) {
	right, up := cam.screenBasis()
	return right, up, rotation
}

// QuadCorners expands a resolved billboard into its four world-space corners,
// ordered (0,0) (1,0) (1,1) (0,1) in UV space. The rotation spins the UV
// offsets (u-0.5, v-0.5) in the quad plane before scaling by size.
func QuadCorners(center, right, up mgl64.Vec3, size, rotation float64) [4]mgl64.Vec3 {
	c := math.Cos(rotation)
	s := math.Sin(rotation)
	var out [4]mgl64.Vec3
	uvs := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, uv := range uvs {
		u := uv[0] - 0.5
		v := uv[1] - 0.5
		ru := c*u - s*v
		rv := s*u + c*v
		out[i] = center.Add(right.Mul(ru * size)).Add(up.Mul(rv * size))
	}
	return out
}
