package cinder

// Instance is one packed per-particle record in the renderer-facing layout:
// position+scale, velocity+final rotation, the resolved alignment (right)
// vector, and color. All float32, 15 floats per instance, matching the
// vertex-instance attribute layout.
type Instance struct {
	PositionScale    [4]float32
	VelocityRotation [4]float32
	Alignment        [3]float32
	Color            [4]float32
}

// InstanceFloats is the number of float32 values per Instance.
const InstanceFloats = 15

// pack rebuilds the instance buffer for one camera in post-cull order. The
// backing array is retained across ticks, capped at MaxParticles, so steady
// state packs allocate nothing.
func (s *System) pack(cam *CameraBasis) {
	s.inst = s.inst[:0]
	for i := range s.live {
		p := &s.live[i]
		prog := p.Progress()
		size := s.cfg.Scale.Eval(prog)
		col := s.cfg.Color.Eval(prog)

		pos := p.Pos
		if s.cfg.Space == SpaceLocal {
			pos = pos.Add(s.origin)
		}
		right, _, rot := s.cfg.Alignment.Resolve(pos, p.Vel, p.Rotation, cam)

		s.inst = append(s.inst, Instance{
			PositionScale: [4]float32{
				float32(pos.X()), float32(pos.Y()), float32(pos.Z()), float32(size),
			},
			VelocityRotation: [4]float32{
				float32(p.Vel.X()), float32(p.Vel.Y()), float32(p.Vel.Z()), float32(rot),
			},
			Alignment: [3]float32{
				float32(right.X()), float32(right.Y()), float32(right.Z()),
			},
			Color: [4]float32{col.R, col.G, col.B, col.A},
		})
	}
}
