package cinder

import "github.com/go-gl/mathgl/mgl64"

type runState uint8

const (
	stateIdle runState = iota
	stateRunning
	statePaused
	stateFinished
)

// System is one particle system instance: its config, live particle arena,
// emission bookkeeping, RNG, and reusable instance buffer.
//
// A System is not safe for concurrent use; tick each system from one
// goroutine. Distinct systems are fully independent.
type System struct {
	cfg    Config
	origin mgl64.Vec3
	rand   *Rand

	live []Particle
	inst []Instance

	elapsed  float64 // time since the current emission cycle started
	spawnAcc float64 // fractional spawn carry across ticks
	burstIdx int
	state    runState
}

// New validates cfg and builds an idle System. The seed makes the simulation
// fully reproducible; both particle storage and the instance buffer are
// allocated up front at MaxParticles so the tick path stays allocation-free.
func New(cfg Config, seed uint64) (*System, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return &System{
		cfg:  cfg,
		rand: NewRand(seed),
		live: make([]Particle, 0, cfg.MaxParticles),
		inst: make([]Instance, 0, cfg.MaxParticles),
	}, nil
}

// Play starts or resumes emission. Restarting a finished system begins a new
// emission cycle; particles still alive from before keep aging out.
func (s *System) Play() {
	if s.state == stateFinished || s.state == stateIdle {
		s.elapsed = 0
		s.spawnAcc = 0
		s.burstIdx = 0
	}
	s.state = stateRunning
}

// Pause suspends emission and the cycle clock. Live particles keep moving.
func (s *System) Pause() {
	if s.state == stateRunning {
		s.state = statePaused
	}
}

// Stop halts emission and clears all live particles.
func (s *System) Stop() {
	s.live = s.live[:0]
	s.inst = s.inst[:0]
	s.elapsed = 0
	s.spawnAcc = 0
	s.burstIdx = 0
	s.state = stateIdle
}

// Done reports that a non-looping system finished its cycle and every
// particle has aged out.
func (s *System) Done() bool {
	return s.state == stateFinished && len(s.live) == 0
}

// Alive returns the current live particle count.
func (s *System) Alive() int { return len(s.live) }

// Origin returns the emitter position in world space.
func (s *System) Origin() mgl64.Vec3 { return s.origin }

// SetOrigin moves the emitter. In SpaceLocal all live particles follow; in
// SpaceWorld only future spawns are affected.
func (s *System) SetOrigin(o mgl64.Vec3) { s.origin = o }

// Texture returns the opaque texture handle from the config, untouched.
func (s *System) Texture() TextureHandle { return s.cfg.Texture }

// Tick advances the system by dt seconds and rebuilds the instance buffer
// for cam: emission, then integration and culling, then orientation and
// packing. dt <= 0 is a no-op. The buffer is valid until the next Tick or
// InstancesFor call.
func (s *System) Tick(dt float64, cam CameraBasis) {
	if dt <= 0 {
		return
	}
	s.emit(dt)
	s.integrate(dt)
	s.pack(&cam)
}

// Instances returns the buffer built by the last Tick or InstancesFor.
func (s *System) Instances() []Instance { return s.inst }

// InstancesFor re-resolves orientation and repacks for another camera
// without re-simulating. Call once per extra camera after Tick; the returned
// slice is reused and invalidated by the next pack.
func (s *System) InstancesFor(cam CameraBasis) []Instance {
	s.pack(&cam)
	return s.inst
}

// progress is the emission cycle position in [0,1], 0 for untimed systems.
func (s *System) progress() float64 {
	if s.cfg.Duration <= 0 {
		return 0
	}
	return clampF(s.elapsed/s.cfg.Duration, 0, 1)
}
