package inputs

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	options "github.com/softlight/goscreenfx/options"
	scene "github.com/softlight/goscreenfx/scene"
)

func testOptions() *options.Options {
	mode := "image"
	fps := 0
	ffmpegPath := ""
	noCache := true
	return &options.Options{
		Mode:       &mode,
		FPS:        &fps,
		FFMPEGPath: &ffmpegPath,
		NoCache:    &noCache,
	}
}

// writeTestPNG writes a small image to a temp file and returns its path.
func writeTestPNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: uint8(x * 60), A: 255})
		img.SetNRGBA(x, 1, color.NRGBA{B: uint8(x * 60), A: 255})
	}

	path := filepath.Join(t.TempDir(), "screen.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating temp png: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding temp png: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing temp png: %v", err)
	}
	return path
}

// TestNewChannelNilDesc verifies a scene without a channel fails.
func TestNewChannelNilDesc(t *testing.T) {
	if _, err := NewChannel(nil, testOptions()); err == nil {
		t.Error("NewChannel(nil) succeeded, want error")
	}
}

// TestNewChannelUnknownCType verifies unknown kinds are rejected by name.
func TestNewChannelUnknownCType(t *testing.T) {
	desc := &scene.ChannelDesc{CType: "hologram"}
	_, err := NewChannel(desc, testOptions())
	if err == nil {
		t.Fatal("NewChannel succeeded, want error")
	}
	if !strings.Contains(err.Error(), "hologram") {
		t.Errorf("error %q does not name the ctype", err)
	}
}

// TestNewChannelTestcard verifies the built-in pattern needs no source.
func TestNewChannelTestcard(t *testing.T) {
	desc := &scene.ChannelDesc{CType: "testcard"}
	ch, err := NewChannel(desc, testOptions())
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}
	defer ch.Close()

	if ch.CType() != "testcard" {
		t.Errorf("CType() = %q, want %q", ch.CType(), "testcard")
	}
}

// TestNewChannelImageFromFile verifies a local image decodes into a
// channel with the image's resolution.
func TestNewChannelImageFromFile(t *testing.T) {
	path := writeTestPNG(t)
	desc := &scene.ChannelDesc{CType: "image", Src: path}

	ch, err := NewChannel(desc, testOptions())
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}
	defer ch.Close()

	if got := ch.ChannelRes(); got != [3]float32{4, 2, 1} {
		t.Errorf("ChannelRes() = %v, want [4 2 1]", got)
	}
	// Pixel (1,0) of the source is R=60 opaque.
	got := ch.Texture().Texel(1, 0)
	if !nearRGBA(got, RGBA{R: 60.0 / 255, A: 1}) {
		t.Errorf("Texel(1, 0) = %v, want R=60/255 opaque", got)
	}
}

// TestNewChannelImageMissingFile verifies a bad path surfaces an error.
func TestNewChannelImageMissingFile(t *testing.T) {
	desc := &scene.ChannelDesc{CType: "image", Src: filepath.Join(t.TempDir(), "absent.png")}
	if _, err := NewChannel(desc, testOptions()); err == nil {
		t.Error("NewChannel succeeded on a missing file, want error")
	}
}

// TestImageChannelVFlip verifies the sampler's vflip flag flips rows at
// channel construction.
func TestImageChannelVFlip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{G: 255, A: 255})

	ch, err := NewImageChannel(img, scene.Sampler{VFlip: "true"})
	if err != nil {
		t.Fatalf("NewImageChannel failed: %v", err)
	}
	defer ch.Close()

	if got := ch.Texture().Texel(0, 0); !nearRGBA(got, RGBA{G: 1, A: 1}) {
		t.Errorf("flipped Texel(0, 0) = %v, want green", got)
	}
}
