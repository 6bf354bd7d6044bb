// Package preview presents the screen effect in a window. The effect can
// run two ways: as the translated GLSL program on the GPU, or on the CPU
// with the result blitted to the window. The S key toggles between them
// at runtime, which makes divergence between the two renditions easy to
// spot.
package preview

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	gst "github.com/richinsley/goshadertranslator"

	glfwcontext "github.com/softlight/goscreenfx/glfwcontext"
	graphics "github.com/softlight/goscreenfx/graphics"
	inputs "github.com/softlight/goscreenfx/inputs"
	renderer "github.com/softlight/goscreenfx/renderer"
	scene "github.com/softlight/goscreenfx/scene"
	shader "github.com/softlight/goscreenfx/shader"
	xlate "github.com/softlight/goscreenfx/translator"
)

var glInitOnce sync.Once

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// effectPass holds the translated GPU program and its uniform locations.
// Locations can be -1: the translator is free to strip uniforms the
// effect declares but never reads.
type effectPass struct {
	program       uint32
	resolutionLoc int32
	timeLoc       int32
	screenTexLoc  int32
}

// Preview owns the window, the GL pipeline and the software renderer.
type Preview struct {
	context  graphics.Context
	renderer *renderer.Renderer

	quadVAO     uint32
	effect      *effectPass
	blitProgram uint32

	// screenTexID carries the channel texture for the GPU path;
	// blitTexID carries quantized CPU frames. presentTex points at
	// whichever one holds this frame's result.
	screenTexID uint32
	blitTexID   uint32
	fbo         uint32
	fboTex      uint32
	presentTex  uint32

	software      bool
	width, height int
}

// New builds the window and both render paths. The surface stays at the
// scene's dimensions; resizing the window stretches the presentation.
func New(sc *scene.Scene, r *renderer.Renderer, software bool) (*Preview, error) {
	ctx, err := glfwcontext.New(sc.Width, sc.Height, "goscreenfx", true)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		ctx.Shutdown()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	p := &Preview{
		context:  ctx,
		renderer: r,
		software: software,
		width:    sc.Width,
		height:   sc.Height,
	}

	if err := p.initPipeline(); err != nil {
		p.Shutdown()
		return nil, err
	}

	ctx.RegisterKeyCallback(glfw.KeyS, func() {
		p.software = !p.software
		if p.software {
			log.Println("render path: software")
		} else {
			log.Println("render path: GPU")
		}
	})

	return p, nil
}

// initPipeline builds the quad, the programs, the textures and the
// offscreen target.
func (p *Preview) initPipeline() error {
	var vbo uint32
	gl.GenVertexArrays(1, &p.quadVAO)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(p.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	// Both paths produce textures whose first row is the image top, so
	// presentation always goes through the flipped blit.
	var err error
	p.blitProgram, err = newProgram(shader.GetVertexShader(), shader.GetBlitFragmentShader(true))
	if err != nil {
		return fmt.Errorf("failed to create blit program: %w", err)
	}

	p.effect, err = buildEffectPass()
	if err != nil {
		return err
	}

	gl.GenTextures(1, &p.screenTexID)
	gl.GenTextures(1, &p.blitTexID)

	// Offscreen target for the GPU path. Float format so out-of-range
	// effect output survives until the blit.
	gl.GenFramebuffers(1, &p.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)
	gl.GenTextures(1, &p.fboTex)
	gl.BindTexture(gl.TEXTURE_2D, p.fboTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(p.width), int32(p.height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, p.fboTex, 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return fmt.Errorf("offscreen framebuffer incomplete: 0x%x", status)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return nil
}

// buildEffectPass translates the ES effect source to the desktop dialect
// and links it against the fullscreen vertex shader.
func buildEffectPass() (*effectPass, error) {
	tr, err := xlate.Get()
	if err != nil {
		return nil, err
	}
	fsShader, err := tr.TranslateShader(shader.GetScreenShaderSource(), "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("screen shader translation failed: %w", err)
	}

	program, err := newProgram(shader.GetVertexShader(), fsShader.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to create effect program: %w", err)
	}

	uniformMap := fsShader.Variables
	gl.UseProgram(program)

	pass := &effectPass{
		program:       program,
		resolutionLoc: -1,
		timeLoc:       -1,
		screenTexLoc:  -1,
	}
	if v, ok := uniformMap["uResolution"]; ok {
		pass.resolutionLoc = gl.GetUniformLocation(program, gl.Str(v.MappedName+"\x00"))
	}
	if v, ok := uniformMap["uTime"]; ok {
		pass.timeLoc = gl.GetUniformLocation(program, gl.Str(v.MappedName+"\x00"))
	}
	if v, ok := uniformMap["uScreenTex"]; ok {
		pass.screenTexLoc = gl.GetUniformLocation(program, gl.Str(v.MappedName+"\x00"))
	}
	return pass, nil
}

// Run drives the window loop until the user closes it.
func (p *Preview) Run() {
	startTime := p.context.Time()
	lastTime := 0.0
	var frameCount int32 = 0

	for !p.context.ShouldClose() {
		currentTime := p.context.Time() - startTime
		uniforms := &inputs.Uniforms{
			Time:       float32(currentTime),
			TimeDelta:  float32(currentTime - lastTime),
			Frame:      frameCount,
			Resolution: [3]float32{float32(p.width), float32(p.height), 1.0},
		}
		lastTime = currentTime

		if p.software {
			p.renderSoftwareFrame(uniforms)
		} else {
			p.renderGPUFrame(uniforms)
		}
		p.blitToWindow()

		p.context.EndFrame()
		frameCount++
	}
}

// renderGPUFrame uploads the channel texture and runs the translated
// effect into the offscreen target.
func (p *Preview) renderGPUFrame(uniforms *inputs.Uniforms) {
	ch := p.renderer.Channel()
	if err := ch.Update(uniforms); err != nil {
		log.Printf("channel update: %v", err)
	}
	tex := ch.Texture()

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.screenTexID)
	// Float upload keeps the channel unquantized on the way in.
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(tex.Width()), int32(tex.Height()), 0, gl.RGBA, gl.FLOAT, gl.Ptr(tex.Pix()))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrapMode(tex.Wrap()))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrapMode(tex.Wrap()))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilterMode(tex.Filter()))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilterMode(tex.Filter()))

	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)
	gl.UseProgram(p.effect.program)
	if p.effect.resolutionLoc != -1 {
		gl.Uniform3f(p.effect.resolutionLoc, float32(p.width), float32(p.height), 1.0)
	}
	if p.effect.timeLoc != -1 {
		gl.Uniform1f(p.effect.timeLoc, uniforms.Time)
	}
	if p.effect.screenTexLoc != -1 {
		gl.Uniform1i(p.effect.screenTexLoc, 0)
	}
	gl.Viewport(0, 0, int32(p.width), int32(p.height))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(p.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	p.presentTex = p.fboTex
}

// renderSoftwareFrame runs the effect on the CPU and uploads the
// quantized frame.
func (p *Preview) renderSoftwareFrame(uniforms *inputs.Uniforms) {
	fb, err := p.renderer.RenderFrame(uniforms)
	if err != nil {
		log.Printf("software render: %v", err)
		return
	}
	img := fb.ToNRGBA()

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.blitTexID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(fb.Width()), int32(fb.Height()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	p.presentTex = p.blitTexID
}

// blitToWindow stretches the frame's result over the window framebuffer.
func (p *Preview) blitToWindow() {
	fbWidth, fbHeight := p.context.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(p.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.presentTex)
	gl.BindVertexArray(p.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Shutdown releases the GL objects and the window.
func (p *Preview) Shutdown() {
	if p.effect != nil {
		gl.DeleteProgram(p.effect.program)
	}
	if p.blitProgram != 0 {
		gl.DeleteProgram(p.blitProgram)
	}
	gl.DeleteTextures(1, &p.screenTexID)
	gl.DeleteTextures(1, &p.blitTexID)
	gl.DeleteTextures(1, &p.fboTex)
	gl.DeleteFramebuffers(1, &p.fbo)
	gl.DeleteVertexArrays(1, &p.quadVAO)
	p.context.Shutdown()
}

// glWrapMode converts a sampler wrap mode to the GL constant.
func glWrapMode(m inputs.WrapMode) int32 {
	if m == inputs.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// glFilterMode converts a sampler filter mode to the GL constant.
func glFilterMode(m inputs.FilterMode) int32 {
	if m == inputs.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

// newProgram links a vertex and fragment shader pair.
func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("failed to link program: %v", infoLog)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shaderID := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shaderID, 1, csources, nil)
	free()
	gl.CompileShader(shaderID)

	var status int32
	gl.GetShaderiv(shaderID, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shaderID, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shaderID, logLength, nil, gl.Str(logText))
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shaderID, nil
}
