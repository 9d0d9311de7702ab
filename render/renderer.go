// Package render draws cinder instance buffers as billboard quads with
// OpenGL 4.1 instanced rendering. The simulation core stays GPU-agnostic;
// this package is the reference consumer of its instance layout.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl64"

	"cinder"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

const instanceStride = int32(cinder.InstanceFloats * 4)

// DrawOptions selects per-draw render state.
type DrawOptions struct {
	// Texture is the opaque handle carried through from the system config,
	// interpreted here as a GL texture name. Zero draws soft circles.
	Texture cinder.TextureHandle

	// Additive blends src alpha additively (fire, glow) instead of standard
	// alpha blending (smoke, dust).
	Additive bool
}

// Renderer owns the GPU resources for billboard particle rendering: one
// program, a static unit quad, and a streaming instance VBO that only grows.
type Renderer struct {
	prog    uint32
	vao     uint32
	quadVBO uint32
	instVBO uint32

	uViewProj int32
	uCamPos   int32
	uTex      int32
	uHasTex   int32

	instCap int // instance VBO capacity, in instances
}

func NewRenderer() (*Renderer, error) {
	prog, err := linkProgram(billboardVertSrc, billboardFragSrc)
	if err != nil {
		return nil, fmt.Errorf("billboard program: %w", err)
	}

	r := &Renderer{prog: prog}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.quadVBO)
	gl.GenBuffers(1, &r.instVBO)
	gl.BindVertexArray(r.vao)

	// Static unit quad (6 vertices, 2 triangles).
	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))

	// Instance attributes, advancing once per instance.
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instVBO)
	// iPosScale (vec4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, instanceStride, glOffset(0))
	gl.VertexAttribDivisor(1, 1)
	// iVelRot (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, instanceStride, glOffset(4*4))
	gl.VertexAttribDivisor(2, 1)
	// iAlign (vec3)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 3, gl.FLOAT, false, instanceStride, glOffset(8*4))
	gl.VertexAttribDivisor(3, 1)
	// iColor (vec4)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointer(4, 4, gl.FLOAT, false, instanceStride, glOffset(11*4))
	gl.VertexAttribDivisor(4, 1)

	gl.UseProgram(prog)
	r.uViewProj = gl.GetUniformLocation(prog, gl.Str("uViewProj\x00"))
	r.uCamPos = gl.GetUniformLocation(prog, gl.Str("uCamPos\x00"))
	r.uTex = gl.GetUniformLocation(prog, gl.Str("uTex\x00"))
	r.uHasTex = gl.GetUniformLocation(prog, gl.Str("uHasTex\x00"))
	gl.Uniform1i(r.uTex, 0)
	gl.Uniform1i(r.uHasTex, 0)

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteBuffers(1, &r.instVBO)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.prog)
}

// Draw streams the instance buffer and issues one instanced draw call. The
// caller must only pass a buffer that was fully built this frame.
func (r *Renderer) Draw(instances []cinder.Instance, cam cinder.CameraBasis, opts DrawOptions) {
	n := len(instances)
	if n == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, r.instVBO)
	byteSize := n * int(instanceStride)
	if n > r.instCap {
		gl.BufferData(gl.ARRAY_BUFFER, byteSize, gl.Ptr(&instances[0]), gl.STREAM_DRAW)
		r.instCap = n
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, byteSize, gl.Ptr(&instances[0]))
	}

	gl.Enable(gl.BLEND)
	if opts.Additive {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	} else {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	// Particles test depth but never write it.
	gl.DepthMask(false)

	gl.UseProgram(r.prog)
	vp := mat4f32(cam.ViewProj)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, &vp[0])
	gl.Uniform3f(r.uCamPos,
		float32(cam.Position.X()), float32(cam.Position.Y()), float32(cam.Position.Z()))

	if opts.Texture != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, uint32(opts.Texture))
		gl.Uniform1i(r.uHasTex, 1)
	} else {
		gl.Uniform1i(r.uHasTex, 0)
	}

	gl.BindVertexArray(r.vao)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, 6, int32(n))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func mat4f32(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i := 0; i < 16; i++ {
		out[i] = float32(m[i])
	}
	return out
}
