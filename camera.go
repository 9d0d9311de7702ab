package cinder

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraBasis carries the per-camera state billboard resolution needs. It is
// a value type; the host passes one per active camera each frame.
type CameraBasis struct {
	Position    mgl64.Vec3
	Up          mgl64.Vec3
	ViewProj    mgl64.Mat4
	InvViewProj mgl64.Mat4
}

// NewCameraBasis builds a CameraBasis, computing the inverse view-projection
// once so per-particle resolution never inverts a matrix.
func NewCameraBasis(position, up mgl64.Vec3, viewProj mgl64.Mat4) CameraBasis {
	return CameraBasis{
		Position:    position,
		Up:          up.Normalize(),
		ViewProj:    viewProj,
		InvViewProj: viewProj.Inv(),
	}
}

// project maps a world point to NDC (post perspective divide). The bool is
// false when the point sits on the camera plane (w ~ 0).
func (c *CameraBasis) project(p mgl64.Vec3) (mgl64.Vec2, bool) {
	v := c.ViewProj.Mul4x1(p.Vec4(1))
	w := v.W()
	if math.Abs(w) < 1e-9 {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{v.X() / w, v.Y() / w}, true
}

// screenBasis extracts world-space right/up from the inverse view-projection
// columns for clip X and Y. Position-independent, so it doubles as the
// fallback basis for degenerate view vectors.
func (c *CameraBasis) screenBasis() (right, up mgl64.Vec3) {
	right = c.InvViewProj.Col(0).Vec3()
	up = c.InvViewProj.Col(1).Vec3()
	if l := right.Len(); l > 1e-12 {
		right = right.Mul(1 / l)
	} else {
		right = mgl64.Vec3{1, 0, 0}
	}
	if l := up.Len(); l > 1e-12 {
		up = up.Mul(1 / l)
	} else {
		up = mgl64.Vec3{0, 1, 0}
	}
	return right, up
}
