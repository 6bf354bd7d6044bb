// inputs/image.go
package inputs

import (
	"fmt"
	"image"
	"log"

	scene "github.com/softlight/goscreenfx/scene"
)

// ImageChannel is a static screen-texture input, decoded and converted
// once at construction.
type ImageChannel struct {
	ctype      string
	texture    *Texture
	resolution [3]float32
}

// NewImageChannel converts a decoded image into a float texture channel.
func NewImageChannel(img image.Image, sampler scene.Sampler) (*ImageChannel, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	// Handle vertical flip if requested.
	flip := sampler.VFlip == "true"
	if flip {
		log.Printf("image channel: applying vertical flip (vflip=true)")
	}

	tex, err := TextureFromImage(img, ParseWrap(sampler.Wrap), ParseFilter(sampler.Filter), flip)
	if err != nil {
		return nil, fmt.Errorf("converting image channel: %w", err)
	}

	return &ImageChannel{
		ctype:      "image",
		texture:    tex,
		resolution: tex.Resolution(),
	}, nil
}

// --- Channel Interface Implementation ---

func (c *ImageChannel) CType() string {
	return c.ctype
}

func (c *ImageChannel) Update(uniforms *Uniforms) error {
	// No-op for static images.
	return nil
}

func (c *ImageChannel) Texture() *Texture {
	return c.texture
}

func (c *ImageChannel) ChannelRes() [3]float32 {
	return c.resolution
}

func (c *ImageChannel) Close() error {
	return nil
}
