// Package cinder simulates sprite particle systems on the CPU: emission
// scheduling, kinematic integration, lifetime-driven color and size curves,
// and billboard orientation. Each tick the surviving particles are packed
// into a flat instance buffer for a renderer to consume.
//
// A System is single-threaded; separate Systems share no state and may be
// ticked from different goroutines.
package cinder

import "github.com/go-gl/mathgl/mgl64"

// Particle is the per-particle simulation state. Color and size are not
// stored here; they are recomputed every tick from Age/Lifetime via the
// system's curves, so curve edits apply to already-live particles.
type Particle struct {
	Pos mgl64.Vec3 // emitter-local in SpaceLocal, world in SpaceWorld
	Vel mgl64.Vec3

	Rotation      float64 // radians
	RotationSpeed float64 // radians/sec

	Age      float64 // seconds since spawn
	Lifetime float64 // sampled once at spawn, fixed
	Distance float64 // world units traveled since spawn
}

// Progress returns the particle's normalized lifetime position in [0,1].
func (p *Particle) Progress() float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	return clampF(p.Age/p.Lifetime, 0, 1)
}
