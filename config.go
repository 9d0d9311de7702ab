package cinder

import "fmt"

// Space selects the coordinate space particles simulate in.
type Space uint8

const (
	// SpaceWorld detaches particles from the emitter once spawned; moving the
	// system origin leaves live particles where they are.
	SpaceWorld Space = iota
	// SpaceLocal keeps particle positions relative to the system origin, so
	// live particles follow the emitter.
	SpaceLocal
)

// Burst fires Count extra particles the first tick the system's elapsed time
// passes Time. Bursts do not count against the spawn rate, only the particle
// cap. A Time at or beyond Duration never fires.
type Burst struct {
	Time  float64
	Count int
}

// TextureHandle is an opaque asset reference carried through to the renderer.
// The simulation never inspects it.
type TextureHandle uint64

// Config describes a particle system. It is validated once at construction
// and treated as immutable for the life of the System.
type Config struct {
	// MaxParticles caps the live set. Spawn requests beyond the cap are
	// dropped, not queued.
	MaxParticles int

	// SpawnRate is the emission rate in particles per second, sampled once
	// per tick. Ignored when SpawnRateOverTime is set.
	SpawnRate JitteredValue

	// SpawnRateOverTime, when non-nil, is evaluated at the system's duration
	// progress each tick and replaces SpawnRate, letting the rate ramp or
	// pulse across an emission cycle.
	SpawnRateOverTime Scalar

	// InitialSpeed scales the direction sampled from Shape.
	InitialSpeed JitteredValue

	// Acceleration, when non-nil, is evaluated at lifetime progress and
	// applied along each particle's direction of travel, in units/sec^2.
	Acceleration Scalar

	// Drag damps velocity as v *= 1 - Drag*dt per tick, floored at zero so a
	// large Drag*dt can stop a particle but never reverse it.
	Drag float64

	// Lifetime is sampled once per particle at spawn, in seconds.
	Lifetime JitteredValue

	InitialRotation JitteredValue // radians
	RotationSpeed   JitteredValue // radians/sec

	// Scale is the quad size over lifetime progress. Nil means constant 1.
	Scale Scalar

	// Color over lifetime progress. Empty means solid white.
	Color Gradient

	// Shape is the emission region. Nil means a point emitter.
	Shape EmissionShape

	// Alignment selects billboard orientation. Nil means FaceCamera.
	Alignment AlignMode

	// Looping restarts the emission cycle when Duration elapses. Live
	// particles from the previous cycle keep aging out; they are not cleared.
	Looping bool

	// Duration is the emission cycle length in seconds. Zero with Looping
	// false means the system emits until stopped.
	Duration float64

	// MaxDistance culls a particle once it has traveled this far, regardless
	// of remaining lifetime. Zero means unlimited.
	MaxDistance float64

	Bursts []Burst

	Space Space

	Texture TextureHandle
}

func (c *Config) validate() error {
	if c.MaxParticles < 0 {
		return fmt.Errorf("config: max particles must be >= 0, got %d", c.MaxParticles)
	}
	if err := c.SpawnRate.validate("config: spawn rate"); err != nil {
		return err
	}
	if err := c.InitialSpeed.validate("config: initial speed"); err != nil {
		return err
	}
	if err := c.Lifetime.validate("config: lifetime"); err != nil {
		return err
	}
	if err := c.InitialRotation.validate("config: initial rotation"); err != nil {
		return err
	}
	if err := c.RotationSpeed.validate("config: rotation speed"); err != nil {
		return err
	}
	if c.Lifetime.Base+c.Lifetime.JitterMin <= 0 {
		return fmt.Errorf("config: lifetime must stay positive, minimum is %g",
			c.Lifetime.Base+c.Lifetime.JitterMin)
	}
	if c.Drag < 0 {
		return fmt.Errorf("config: drag must be >= 0, got %g", c.Drag)
	}
	if c.Duration < 0 {
		return fmt.Errorf("config: duration must be >= 0, got %g", c.Duration)
	}
	if c.Looping && c.Duration == 0 {
		return fmt.Errorf("config: looping system requires a duration > 0")
	}
	if c.MaxDistance < 0 {
		return fmt.Errorf("config: max distance must be >= 0, got %g", c.MaxDistance)
	}
	for i, b := range c.Bursts {
		if b.Count < 0 {
			return fmt.Errorf("config: burst %d count must be >= 0, got %d", i, b.Count)
		}
		if b.Time < 0 {
			return fmt.Errorf("config: burst %d time must be >= 0, got %g", i, b.Time)
		}
		if i > 0 && b.Time < c.Bursts[i-1].Time {
			return fmt.Errorf("config: burst times must be ascending, burst %d at %g after %g",
				i, b.Time, c.Bursts[i-1].Time)
		}
	}
	return nil
}

// withDefaults fills the optional fields so the hot path never nil-checks.
func (c Config) withDefaults() Config {
	if c.Scale == nil {
		c.Scale = Constant(1)
	}
	if len(c.Color) == 0 {
		c.Color = Solid(RGBA{1, 1, 1, 1})
	}
	if c.Shape == nil {
		c.Shape = PointShape{}
	}
	if c.Alignment == nil {
		c.Alignment = FaceCamera{}
	}
	return c
}
