package renderer

import (
	"fmt"
	"log"

	inputs "github.com/softlight/goscreenfx/inputs"
	shader "github.com/softlight/goscreenfx/shader"
)

// Renderer executes a per-pixel effect over the whole output surface on
// the CPU. It is the reference rendition of the effect: deterministic,
// headless, and bit-identical for any worker count.
type Renderer struct {
	width, height int
	effect        shader.Image
	channel       inputs.Channel
	fb            *Framebuffer
	pool          *workerPool
}

// New wires an effect to its screen-texture channel and allocates the
// surface. workers <= 0 selects GOMAXPROCS.
func New(width, height, workers int, effect shader.Image, channel inputs.Channel) (*Renderer, error) {
	if effect == nil {
		return nil, fmt.Errorf("renderer needs an effect")
	}
	if channel == nil {
		return nil, fmt.Errorf("renderer needs a screen-texture channel")
	}
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		width:   width,
		height:  height,
		effect:  effect,
		channel: channel,
		fb:      fb,
		pool:    newWorkerPool(workers),
	}
	log.Printf("renderer: %dx%d surface, %d workers", width, height, r.pool.workers)
	return r, nil
}

// RenderFrame advances the channel to the frame the uniforms describe and
// runs the effect over every pixel. Each pixel samples at its center, the
// software equivalent of rasterizer-interpolated fullscreen-quad UVs,
// with v=0 at the top row. The returned framebuffer is owned by the
// renderer and valid until the next call.
func (r *Renderer) RenderFrame(uniforms *inputs.Uniforms) (*Framebuffer, error) {
	if err := r.channel.Update(uniforms); err != nil {
		return nil, fmt.Errorf("updating channel: %w", err)
	}
	uniforms.ScreenTex = r.channel.Texture()
	uniforms.Resolution = [3]float32{float32(r.width), float32(r.height), 1.0}

	width, height := r.width, r.height
	effect := r.effect
	fb := r.fb

	jobs := make([]func(), height)
	for y := 0; y < height; y++ {
		y := y
		jobs[y] = func() {
			v := (float32(y) + 0.5) / float32(height)
			for x := 0; x < width; x++ {
				u := (float32(x) + 0.5) / float32(width)
				fb.Set(x, y, effect.Fragment(uniforms, inputs.Vec2{X: u, Y: v}))
			}
		}
	}
	r.pool.ExecuteAll(jobs)

	return fb, nil
}

// Channel exposes the screen-texture source, mainly so hosts can inspect
// its resolution.
func (r *Renderer) Channel() inputs.Channel {
	return r.channel
}

// Close releases the pool and the channel.
func (r *Renderer) Close() error {
	r.pool.Close()
	return r.channel.Close()
}
