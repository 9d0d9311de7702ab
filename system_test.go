package cinder

import (
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
)

func testCamera(eye, center mgl64.Vec3) CameraBasis {
	proj := mgl64.Perspective(mgl64.DegToRad(60), 16.0/9.0, 0.1, 100)
	view := mgl64.LookAtV(eye, center, mgl64.Vec3{0, 1, 0})
	return NewCameraBasis(eye, mgl64.Vec3{0, 1, 0}, proj.Mul4(view))
}

func baseConfig() Config {
	return Config{
		MaxParticles: 1000,
		Lifetime:     Value(100),
	}
}

func mustSystem(t *testing.T, cfg Config, seed uint64) *System {
	t.Helper()
	s, err := New(cfg, seed)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSpawnRateAccuracy(t *testing.T) {
	cfg := baseConfig()
	cfg.SpawnRate = Value(2.5)
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	for i := 0; i < 100; i++ {
		s.Tick(0.1, cam)
	}
	// 2.5/s over 10s; the fractional carry keeps the total within one
	// particle of exact regardless of tick size.
	if n := s.Alive(); n < 24 || n > 26 {
		t.Fatalf("spawned %d particles over 10s at 2.5/s, want 24..26", n)
	}
}

func TestParticleCap(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxParticles = 50
	cfg.SpawnRate = Value(10000)
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	for i := 0; i < 20; i++ {
		s.Tick(0.1, cam)
		if s.Alive() > 50 {
			t.Fatalf("live count %d exceeds cap 50", s.Alive())
		}
	}
	if s.Alive() != 50 {
		t.Fatalf("live count %d, want cap 50", s.Alive())
	}
}

func TestBurstsCountAgainstCap(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxParticles = 5
	cfg.Bursts = []Burst{{Time: 0, Count: 10}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	s.Tick(0.1, testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}))
	if s.Alive() != 5 {
		t.Fatalf("live count %d, want cap 5", s.Alive())
	}
}

func TestBurstCatchUp(t *testing.T) {
	cfg := baseConfig()
	cfg.Bursts = []Burst{{Time: 0.5, Count: 3}, {Time: 1.0, Count: 4}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(2.0, cam) // clock jumps past both burst times
	s.Tick(0.1, cam) // both fire together on the next tick
	if s.Alive() != 7 {
		t.Fatalf("live count %d after catch-up, want 7", s.Alive())
	}
}

func TestBurstAtDurationNeverFires(t *testing.T) {
	cfg := baseConfig()
	cfg.Looping = true
	cfg.Duration = 1
	cfg.Bursts = []Burst{{Time: 1, Count: 10}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	for i := 0; i < 50; i++ {
		s.Tick(0.3, cam)
	}
	if s.Alive() != 0 {
		t.Fatalf("burst scheduled at the cycle end fired, %d live", s.Alive())
	}
}

func TestLifetimeRemoval(t *testing.T) {
	cfg := baseConfig()
	cfg.Lifetime = Value(1)
	cfg.Bursts = []Burst{{Time: 0, Count: 10}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(0.6, cam)
	if s.Alive() != 10 {
		t.Fatalf("live count %d, want 10", s.Alive())
	}
	s.Tick(0.6, cam) // age 1.2 >= lifetime 1
	if s.Alive() != 0 {
		t.Fatalf("expired particles still live: %d", s.Alive())
	}
	if len(s.Instances()) != 0 {
		t.Fatalf("expired particles still in instance buffer: %d", len(s.Instances()))
	}
}

func TestMaxDistanceCull(t *testing.T) {
	cfg := baseConfig()
	cfg.InitialSpeed = Value(10)
	cfg.MaxDistance = 1
	cfg.Shape = ConeShape{}
	cfg.Bursts = []Burst{{Time: 0, Count: 1}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(0.06, cam)
	s.Tick(0.06, cam)
	if s.Alive() != 1 {
		t.Fatalf("particle culled before reaching max distance, live %d", s.Alive())
	}
	s.Tick(0.06, cam) // traveled 1.2 by now
	if s.Alive() != 0 {
		t.Fatalf("particle live past max distance, traveled >= 1")
	}
}

func TestLoopingKeepsOldParticles(t *testing.T) {
	cfg := baseConfig()
	cfg.Looping = true
	cfg.Duration = 0.5
	cfg.SpawnRate = Value(20)
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	for i := 0; i < 4; i++ {
		s.Tick(0.1, cam)
	}
	before := s.Alive()
	s.Tick(0.1, cam) // crosses the cycle boundary
	s.Tick(0.1, cam)
	if s.Alive() < before {
		t.Fatalf("cycle restart dropped particles: %d -> %d", before, s.Alive())
	}
}

func TestNonLoopingFinishes(t *testing.T) {
	cfg := baseConfig()
	cfg.Duration = 0.3
	cfg.Lifetime = Value(0.5)
	cfg.Bursts = []Burst{{Time: 0, Count: 5}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	for i := 0; i < 10; i++ {
		if s.Done() {
			return
		}
		s.Tick(0.1, cam)
	}
	if !s.Done() {
		t.Fatalf("system never finished: %d live", s.Alive())
	}
}

func TestUntimedSystemRunsUntilStopped(t *testing.T) {
	cfg := baseConfig()
	cfg.SpawnRate = Value(10)
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	for i := 0; i < 100; i++ {
		s.Tick(0.1, cam)
	}
	if s.Done() {
		t.Fatal("zero-duration system reported done")
	}
	if s.Alive() == 0 {
		t.Fatal("zero-duration system stopped emitting")
	}
	s.Stop()
	if s.Alive() != 0 || len(s.Instances()) != 0 {
		t.Fatal("stop left particles behind")
	}
}

func TestPauseFreezesEmissionNotMotion(t *testing.T) {
	cfg := baseConfig()
	cfg.SpawnRate = Value(100)
	cfg.InitialSpeed = Value(5)
	cfg.Shape = ConeShape{}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(0.1, cam)
	alive := s.Alive()
	if alive == 0 {
		t.Fatal("nothing spawned")
	}
	posBefore := s.Instances()[0].PositionScale

	s.Pause()
	s.Tick(0.1, cam)
	if s.Alive() != alive {
		t.Fatalf("paused system changed live count: %d -> %d", alive, s.Alive())
	}
	if s.Instances()[0].PositionScale == posBefore {
		t.Fatal("paused particle did not move")
	}
}

func TestSpawnRateOverTimeOverridesRate(t *testing.T) {
	cfg := baseConfig()
	cfg.SpawnRate = Value(1000)
	cfg.SpawnRateOverTime = Constant(10)
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	for i := 0; i < 10; i++ {
		s.Tick(0.1, cam)
	}
	if s.Alive() != 10 {
		t.Fatalf("live count %d, want 10 from the over-time rate", s.Alive())
	}
}

func TestLocalSpaceFollowsOrigin(t *testing.T) {
	cfg := baseConfig()
	cfg.Space = SpaceLocal
	cfg.Bursts = []Burst{{Time: 0, Count: 1}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(0.1, cam)
	s.SetOrigin(mgl64.Vec3{100, 0, 0})
	s.Tick(0.1, cam)
	if x := s.Instances()[0].PositionScale[0]; x < 99 {
		t.Fatalf("local-space particle did not follow origin, x = %g", x)
	}
}

func TestWorldSpaceDetachesFromOrigin(t *testing.T) {
	cfg := baseConfig()
	cfg.Bursts = []Burst{{Time: 0, Count: 1}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(0.1, cam)
	s.SetOrigin(mgl64.Vec3{100, 0, 0})
	s.Tick(0.1, cam)
	if x := s.Instances()[0].PositionScale[0]; x > 50 {
		t.Fatalf("world-space particle followed origin, x = %g", x)
	}
}

func TestDeterministicFromSeed(t *testing.T) {
	cfg := baseConfig()
	cfg.SpawnRate = Jittered(50, -10, 10)
	cfg.InitialSpeed = Jittered(3, -1, 1)
	cfg.Shape = SphereShape{Radius: Jittered(0.5, -0.2, 0.2)}

	a := mustSystem(t, cfg, 99)
	b := mustSystem(t, cfg, 99)
	a.Play()
	b.Play()

	cam := testCamera(mgl64.Vec3{3, 4, 10}, mgl64.Vec3{})
	for i := 0; i < 30; i++ {
		a.Tick(0.033, cam)
		b.Tick(0.033, cam)
	}
	ia, ib := a.Instances(), b.Instances()
	if len(ia) != len(ib) {
		t.Fatalf("instance counts differ: %d vs %d", len(ia), len(ib))
	}
	for i := range ia {
		if ia[i] != ib[i] {
			t.Fatalf("instance %d differs between identical seeds", i)
		}
	}
}

func TestDegenerateCameraProducesFiniteBuffer(t *testing.T) {
	cfg := baseConfig()
	cfg.Bursts = []Burst{{Time: 0, Count: 5}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	// Camera sitting exactly on the emitter: no view direction exists.
	cam := testCamera(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1})
	s.Tick(0.001, cam)
	for i, inst := range s.Instances() {
		for _, v := range inst.PositionScale {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("instance %d position not finite", i)
			}
		}
		for _, v := range inst.Alignment {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("instance %d alignment not finite", i)
			}
		}
	}
}

func TestInstancesForSecondCamera(t *testing.T) {
	cfg := baseConfig()
	cfg.Bursts = []Burst{{Time: 0, Count: 3}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	camA := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	camB := testCamera(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{})

	s.Tick(0.1, camA)
	alignA := s.Instances()[0].Alignment

	instB := s.InstancesFor(camB)
	if len(instB) != 3 {
		t.Fatalf("repack count %d, want 3", len(instB))
	}
	if instB[0].Alignment == alignA {
		t.Fatal("orientation identical for orthogonal cameras")
	}
	if instB[0].PositionScale != s.Instances()[0].PositionScale {
		t.Fatal("repack changed simulation state")
	}
}

func TestTickNonPositiveDtNoOp(t *testing.T) {
	cfg := baseConfig()
	cfg.Bursts = []Burst{{Time: 0, Count: 2}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(0.1, cam)
	before := s.Instances()[0]
	s.Tick(0, cam)
	s.Tick(-1, cam)
	if s.Instances()[0] != before {
		t.Fatal("non-positive dt advanced the simulation")
	}
}

func TestDragNeverReversesVelocity(t *testing.T) {
	cfg := baseConfig()
	cfg.InitialSpeed = Value(10)
	cfg.Drag = 100 // Drag*dt > 1
	cfg.Shape = ConeShape{}
	cfg.Bursts = []Burst{{Time: 0, Count: 1}}
	s := mustSystem(t, cfg, 1)
	s.Play()

	cam := testCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{})
	s.Tick(0.1, cam)
	y := s.Instances()[0].VelocityRotation[1]
	if y < 0 {
		t.Fatalf("overdamped particle reversed, vy = %g", y)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"negative max particles", func(c *Config) { c.MaxParticles = -1 }},
		{"inverted jitter", func(c *Config) { c.SpawnRate = Jittered(1, 5, -5) }},
		{"non-positive lifetime", func(c *Config) { c.Lifetime = Value(0) }},
		{"lifetime jitter below zero", func(c *Config) { c.Lifetime = Jittered(1, -2, 0) }},
		{"negative drag", func(c *Config) { c.Drag = -1 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"looping without duration", func(c *Config) { c.Looping = true }},
		{"negative max distance", func(c *Config) { c.MaxDistance = -1 }},
		{"negative burst count", func(c *Config) { c.Bursts = []Burst{{Count: -1}} }},
		{"descending burst times", func(c *Config) {
			c.Bursts = []Burst{{Time: 2, Count: 1}, {Time: 1, Count: 1}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mut(&cfg)
			if _, err := New(cfg, 1); err == nil {
				t.Fatal("invalid config accepted")
			}
		})
	}
}

func TestInstanceLayout(t *testing.T) {
	// The renderer uploads instances as one tightly packed float32 stream.
	if got := unsafe.Sizeof(Instance{}); got != InstanceFloats*4 {
		t.Fatalf("Instance size %d bytes, want %d", got, InstanceFloats*4)
	}
}
