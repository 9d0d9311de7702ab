package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Billboard vertex shader: a unit quad expanded per instance. The CPU side
// supplies the resolved alignment (right) vector and final rotation; the up
// axis is reconstructed from the view direction so one vec3 per instance is
// enough.
const billboardVertSrc = `#version 410 core

layout(location = 0) in vec2 aQuad; // 0..1 unit quad vertex

layout(location = 1) in vec4 iPosScale; // xyz world pos, w size
layout(location = 2) in vec4 iVelRot;   // xyz velocity, w rotation (radians)
layout(location = 3) in vec3 iAlign;    // resolved right vector
layout(location = 4) in vec4 iColor;

uniform mat4 uViewProj;
uniform vec3 uCamPos;

out vec2 vUV;
out vec4 vColor;

void main() {
    vec2 corner = aQuad - 0.5;
    float c = cos(iVelRot.w);
    float s = sin(iVelRot.w);
    vec2 rot = vec2(c * corner.x - s * corner.y, s * corner.x + c * corner.y);

    vec3 right = normalize(iAlign);
    vec3 view = uCamPos - iPosScale.xyz;
    vec3 up = vec3(0.0, 1.0, 0.0);
    if (dot(view, view) > 1e-12) {
        vec3 u = cross(normalize(view), right);
        if (dot(u, u) > 1e-12) {
            up = normalize(u);
        }
    }

    vec3 world = iPosScale.xyz + (right * rot.x + up * rot.y) * iPosScale.w;
    gl_Position = uViewProj * vec4(world, 1.0);
    vUV = aQuad;
    vColor = iColor;
}
` + "\x00"

// Billboard fragment shader: textured when a texture is bound, otherwise a
// procedural soft circle with quadratic edge falloff.
const billboardFragSrc = `#version 410 core

uniform sampler2D uTex;
uniform bool uHasTex;

in vec2 vUV;
in vec4 vColor;
out vec4 FragColor;

void main() {
    vec4 col = vColor;
    if (uHasTex) {
        col *= texture(uTex, vUV);
    } else {
        float d = length(vUV - vec2(0.5)) * 2.0;
        col.a *= clamp(1.0 - d * d, 0.0, 1.0);
    }
    if (col.a < 0.004) discard;
    FragColor = col;
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
