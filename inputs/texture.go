// inputs/texture.go
package inputs

import (
	"fmt"
	"image"
	"image/draw"
	"math"
)

// RGBA is an unclamped float32 color. Values outside [0,1] are legal and
// survive every operation; range reduction happens only at presentation
// boundaries.
type RGBA struct {
	R, G, B, A float32
}

// Scale multiplies every channel, including alpha, by k.
func (c RGBA) Scale(k float32) RGBA {
	return RGBA{c.R * k, c.G * k, c.B * k, c.A * k}
}

// Lerp linearly interpolates between c and d by t.
func (c RGBA) Lerp(d RGBA, t float32) RGBA {
	return RGBA{
		c.R + (d.R-c.R)*t,
		c.G + (d.G-c.G)*t,
		c.B + (d.B-c.B)*t,
		c.A + (d.A-c.A)*t,
	}
}

// Vec2 is a normalized texture coordinate pair.
type Vec2 struct {
	X, Y float32
}

// Texture is a CPU-resident 2D RGBA texture with its sampler state
// attached, the software analog of a GL texture object. Texels are stored
// as interleaved float32 RGBA rows, top row first.
type Texture struct {
	width, height int
	texels        []float32
	wrap          WrapMode
	filter        FilterMode
}

// NewTexture allocates a zeroed texture. Dimensions must be positive.
func NewTexture(width, height int, wrap WrapMode, filter FilterMode) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture dimensions %dx%d", width, height)
	}
	return &Texture{
		width:  width,
		height: height,
		texels: make([]float32, width*height*4),
		wrap:   wrap,
		filter: filter,
	}, nil
}

// TextureFromImage converts a decoded image into a float texture. The
// image goes through NRGBA so alpha stays straight; the effect's alpha
// arithmetic must never see premultiplied data. vflip flips rows during
// conversion to match sources whose origin is the bottom-left corner.
func TextureFromImage(img image.Image, wrap WrapMode, filter FilterMode, flip bool) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	if flip {
		nrgba = vflip(nrgba)
	}

	size := nrgba.Rect.Size()
	tex, err := NewTexture(size.X, size.Y, wrap, filter)
	if err != nil {
		return nil, err
	}
	for y := 0; y < size.Y; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		dst := tex.texels[y*tex.width*4:]
		for i := 0; i < size.X*4; i++ {
			dst[i] = float32(row[i]) / 255.0
		}
	}
	return tex, nil
}

// vflip vertically flips the provided NRGBA image, to match the expected
// texture orientation when a source's vflip flag is set.
func vflip(src *image.NRGBA) *image.NRGBA {
	bounds := src.Bounds()
	flipped := image.NewNRGBA(bounds)
	height := bounds.Dy()

	// This is faster than calling At/Set for each pixel
	rowSize := bounds.Dx() * 4 // 4 bytes per pixel (RGBA)
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// Width returns the texture width in texels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in texels.
func (t *Texture) Height() int {
	return t.height
}

// SetTexel stores a texel. Coordinates must be in bounds.
func (t *Texture) SetTexel(x, y int, c RGBA) {
	i := (y*t.width + x) * 4
	t.texels[i] = c.R
	t.texels[i+1] = c.G
	t.texels[i+2] = c.B
	t.texels[i+3] = c.A
}

// Texel fetches a single texel with the texture's wrap mode applied to
// out-of-range integer coordinates.
func (t *Texture) Texel(x, y int) RGBA {
	x = wrapCoord(x, t.width, t.wrap)
	y = wrapCoord(y, t.height, t.wrap)
	i := (y*t.width + x) * 4
	return RGBA{t.texels[i], t.texels[i+1], t.texels[i+2], t.texels[i+3]}
}

// Sample fetches a filtered sample at the normalized coordinate (u, v),
// (0,0) addressing the top-left corner. Nearest filtering selects the
// texel containing the coordinate; linear filtering interpolates the 2x2
// neighborhood around it using the GL texel-center convention.
func (t *Texture) Sample(u, v float32) RGBA {
	if t.filter == FilterNearest {
		x := int(math.Floor(float64(u * float32(t.width))))
		y := int(math.Floor(float64(v * float32(t.height))))
		return t.Texel(x, y)
	}

	fx := u*float32(t.width) - 0.5
	fy := v*float32(t.height) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := t.Texel(x0, y0)
	c10 := t.Texel(x0+1, y0)
	c01 := t.Texel(x0, y0+1)
	c11 := t.Texel(x0+1, y0+1)

	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty)
}

// Resolution returns the texture resolution as a vec3, matching the GL
// channel-resolution uniform shape.
func (t *Texture) Resolution() [3]float32 {
	return [3]float32{float32(t.width), float32(t.height), 1.0}
}

// Wrap returns the texture's wrap mode.
func (t *Texture) Wrap() WrapMode {
	return t.wrap
}

// Filter returns the texture's filter mode.
func (t *Texture) Filter() FilterMode {
	return t.filter
}

// Pix returns the raw texel slice. Rows are interleaved RGBA float32,
// top row first. The slice is live, not a copy.
func (t *Texture) Pix() []float32 {
	return t.texels
}
