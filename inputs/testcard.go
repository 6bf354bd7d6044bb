// inputs/testcard.go
package inputs

import (
	scene "github.com/softlight/goscreenfx/scene"
)

// testCardSize matches the screen texture of the host this pattern
// descends from.
const testCardSize = 32

// TestCardChannel is a built-in synthetic gradient, useful for exercising
// the pipeline with no external media. Red ramps left to right, blue top
// to bottom, green is their average, alpha is opaque.
type TestCardChannel struct {
	ctype      string
	texture    *Texture
	resolution [3]float32
}

// NewTestCardChannel builds the gradient pattern.
func NewTestCardChannel(sampler scene.Sampler) (*TestCardChannel, error) {
	tex, err := NewTexture(testCardSize, testCardSize, ParseWrap(sampler.Wrap), ParseFilter(sampler.Filter))
	if err != nil {
		return nil, err
	}
	for y := 0; y < testCardSize; y++ {
		for x := 0; x < testCardSize; x++ {
			tex.SetTexel(x, y, RGBA{
				R: float32(uint8(x)) / 255.0,
				G: float32(uint8((x+y)/2)) / 255.0,
				B: float32(uint8(y)) / 255.0,
				A: 1.0,
			})
		}
	}
	return &TestCardChannel{
		ctype:      "testcard",
		texture:    tex,
		resolution: tex.Resolution(),
	}, nil
}

// --- Channel Interface Implementation ---

func (c *TestCardChannel) CType() string {
	return c.ctype
}

func (c *TestCardChannel) Update(uniforms *Uniforms) error {
	// Static pattern.
	return nil
}

func (c *TestCardChannel) Texture() *Texture {
	return c.texture
}

func (c *TestCardChannel) ChannelRes() [3]float32 {
	return c.resolution
}

func (c *TestCardChannel) Close() error {
	return nil
}
