package inputs

import (
	"testing"

	scene "github.com/softlight/goscreenfx/scene"
)

// TestTestCardGradient verifies the corner values of the built-in
// pattern: red ramps with x, blue with y, green with their average.
func TestTestCardGradient(t *testing.T) {
	ch, err := NewTestCardChannel(scene.Sampler{})
	if err != nil {
		t.Fatalf("NewTestCardChannel failed: %v", err)
	}
	defer ch.Close()
	tex := ch.Texture()

	tests := []struct {
		name string
		x, y int
		want RGBA
	}{
		{"top-left", 0, 0, RGBA{R: 0, G: 0, B: 0, A: 1}},
		{"top-right", 31, 0, RGBA{R: 31.0 / 255, G: 15.0 / 255, B: 0, A: 1}},
		{"bottom-left", 0, 31, RGBA{R: 0, G: 15.0 / 255, B: 31.0 / 255, A: 1}},
		{"bottom-right", 31, 31, RGBA{R: 31.0 / 255, G: 31.0 / 255, B: 31.0 / 255, A: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Texel(tt.x, tt.y); !nearRGBA(got, tt.want) {
				t.Errorf("Texel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// TestTestCardChannel verifies the channel contract: static texture,
// stable resolution, no-op update.
func TestTestCardChannel(t *testing.T) {
	ch, err := NewTestCardChannel(scene.Sampler{})
	if err != nil {
		t.Fatalf("NewTestCardChannel failed: %v", err)
	}
	defer ch.Close()

	if got := ch.CType(); got != "testcard" {
		t.Errorf("CType() = %q, want %q", got, "testcard")
	}
	if got := ch.ChannelRes(); got != [3]float32{32, 32, 1} {
		t.Errorf("ChannelRes() = %v, want [32 32 1]", got)
	}

	before := ch.Texture().Texel(7, 19)
	if err := ch.Update(&Uniforms{Time: 3.5, Frame: 42}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if after := ch.Texture().Texel(7, 19); after != before {
		t.Errorf("Update changed the pattern: %v -> %v", before, after)
	}
}
