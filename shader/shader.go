package shader

import (
	inputs "github.com/softlight/goscreenfx/inputs"
)

// ScreenBrightness is the fixed gain the screen effect applies to every
// channel of the sampled color, alpha included. The GLSL rendition below
// carries the same literal.
const ScreenBrightness = 5.0

// Image is a per-pixel effect program. Fragment runs once per output
// pixel with the interpolated texture coordinate and the per-draw
// uniforms; it must be pure so pixels can run on any number of workers.
type Image interface {
	Fragment(uniforms *inputs.Uniforms, uv inputs.Vec2) inputs.RGBA
}

// ScreenBrighten is the built-in screen post effect: sample the screen
// texture at the interpolated coordinate and scale all four channels by
// ScreenBrightness. No clamping here; values above 1.0 pass through and
// get ranged only at presentation. The time uniform stays part of the
// draw context but never reaches the output.
type ScreenBrighten struct{}

func (ScreenBrighten) Fragment(uniforms *inputs.Uniforms, uv inputs.Vec2) inputs.RGBA {
	return uniforms.ScreenTex.Sample(uv.X, uv.Y).Scale(ScreenBrightness)
}

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceFlipGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ──────────────────────────────── Screen effect ─────────────────────────────────

// The GPU rendition of ScreenBrighten, written in the ES 3.00 dialect the
// translator consumes. uTime is declared for the host contract even
// though the effect never reads it; translators are free to strip it, so
// uniform uploads guard against missing locations. The coordinate comes
// from gl_FragCoord so the source survives translation without varying
// name fixups.
const screenFragmentShaderSourceGLES = `#version 300 es
precision highp float;

uniform vec3  uResolution;
uniform float uTime;
uniform sampler2D uScreenTex;

out vec4 fragColor;

void main() {
    vec2 uv = gl_FragCoord.xy / uResolution.xy;
    fragColor = texture(uScreenTex, uv) * 5.0;
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GetVertexShader() string {
	return vertexShaderSourceGL
}

func GetBlitFragmentShader(flip bool) string {
	if flip {
		return blitFragmentShaderSourceFlipGL
	}
	return blitFragmentShaderSourceGL
}

// GetScreenShaderSource returns the ES source of the screen effect, ready
// for translation to the desktop dialect.
func GetScreenShaderSource() string {
	return screenFragmentShaderSourceGLES
}
