package cinder

// emit runs the per-tick emission schedule: accumulate the fractional spawn
// count, fire due bursts, clamp to the particle cap, then advance the cycle
// clock and handle looping or finishing.
func (s *System) emit(dt float64) {
	if s.state != stateRunning {
		return
	}

	var rate float64
	if s.cfg.SpawnRateOverTime != nil {
		rate = s.cfg.SpawnRateOverTime.Eval(s.progress())
	} else {
		rate = s.cfg.SpawnRate.Sample(s.rand)
	}
	if rate > 0 {
		// Fractional spawns carry over so the long-run average matches the
		// configured rate at any frame rate.
		s.spawnAcc += rate * dt
	}
	n := int(s.spawnAcc)
	s.spawnAcc -= float64(n)

	extra := 0
	for s.burstIdx < len(s.cfg.Bursts) {
		b := s.cfg.Bursts[s.burstIdx]
		if s.elapsed < b.Time {
			break
		}
		if s.cfg.Duration <= 0 || b.Time < s.cfg.Duration {
			extra += b.Count
		}
		s.burstIdx++
	}

	total := n + extra
	if room := s.cfg.MaxParticles - len(s.live); total > room {
		// Back-pressure, not an error: excess spawns are dropped, never queued.
		total = room
	}
	for i := 0; i < total; i++ {
		s.spawnOne()
	}

	s.elapsed += dt
	if s.cfg.Duration > 0 && s.elapsed >= s.cfg.Duration {
		if s.cfg.Looping {
			s.elapsed = 0
			s.spawnAcc = 0
			s.burstIdx = 0
		} else {
			s.state = stateFinished
		}
	}
}

func (s *System) spawnOne() {
	r := s.rand
	off, dir := s.cfg.Shape.Sample(r)
	p := Particle{
		Pos:           off,
		Vel:           dir.Mul(s.cfg.InitialSpeed.Sample(r)),
		Rotation:      s.cfg.InitialRotation.Sample(r),
		RotationSpeed: s.cfg.RotationSpeed.Sample(r),
		Lifetime:      s.cfg.Lifetime.Sample(r),
	}
	if s.cfg.Space == SpaceWorld {
		p.Pos = p.Pos.Add(s.origin)
	}
	s.live = append(s.live, p)
}
