// renderer/framebuffer.go
package renderer

import (
	"fmt"
	"image"

	inputs "github.com/softlight/goscreenfx/inputs"
)

// Framebuffer is the render target: an unclamped float32 RGBA surface.
// The effect writes whatever it computes; out-of-range values survive
// until a presentation boundary asks for 8-bit data.
type Framebuffer struct {
	width, height int
	pix           []float32
}

// NewFramebuffer allocates a zeroed surface. Dimensions must be positive.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer dimensions %dx%d", width, height)
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*4),
	}, nil
}

// Width returns the surface width in pixels.
func (f *Framebuffer) Width() int {
	return f.width
}

// Height returns the surface height in pixels.
func (f *Framebuffer) Height() int {
	return f.height
}

// Set stores a pixel. Coordinates must be in bounds.
func (f *Framebuffer) Set(x, y int, c inputs.RGBA) {
	i := (y*f.width + x) * 4
	f.pix[i] = c.R
	f.pix[i+1] = c.G
	f.pix[i+2] = c.B
	f.pix[i+3] = c.A
}

// At reads a pixel back.
func (f *Framebuffer) At(x, y int) inputs.RGBA {
	i := (y*f.width + x) * 4
	return inputs.RGBA{R: f.pix[i], G: f.pix[i+1], B: f.pix[i+2], A: f.pix[i+3]}
}

// ToNRGBA quantizes the surface for presentation: clamp to [0,1], scale
// to 255, round. This is the only place range reduction happens. NRGBA
// keeps alpha straight, so the returned Pix slice is also the exact byte
// layout the rawvideo rgba pixel format expects.
func (f *Framebuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	for i, v := range f.pix {
		img.Pix[i] = quantize(v)
	}
	return img
}

// quantize maps one float channel to 8 bits.
func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
