package cinder

// integrate ages, moves, and culls every live particle. Dead particles are
// swap-removed in place; the slot is refilled from the tail and re-examined,
// so nothing is skipped and no allocation happens.
func (s *System) integrate(dt float64) {
	maxDist := s.cfg.MaxDistance
	drag := 1.0
	if s.cfg.Drag > 0 {
		drag = 1 - s.cfg.Drag*dt
		if drag < 0 {
			// A huge Drag*dt stops the particle; it must never reverse it.
			drag = 0
		}
	}

	for i := 0; i < len(s.live); {
		p := &s.live[i]

		p.Age += dt
		if p.Age >= p.Lifetime || (maxDist > 0 && p.Distance >= maxDist) {
			s.live[i] = s.live[len(s.live)-1]
			s.live = s.live[:len(s.live)-1]
			continue
		}

		p.Rotation += p.RotationSpeed * dt

		if s.cfg.Acceleration != nil {
			if l := p.Vel.Len(); l > dirEpsilon {
				a := s.cfg.Acceleration.Eval(p.Progress())
				p.Vel = p.Vel.Add(p.Vel.Mul(a * dt / l))
			}
		}
		p.Vel = p.Vel.Mul(drag)

		step := p.Vel.Mul(dt)
		p.Pos = p.Pos.Add(step)
		p.Distance += step.Len()

		i++
	}
}
