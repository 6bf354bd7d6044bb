package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestFetchImageLocal verifies a local file decodes.
func TestFetchImageLocal(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{R: 200, A: 255})

	path := filepath.Join(t.TempDir(), "local.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating temp png: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("encoding temp png: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing temp png: %v", err)
	}

	img, err := FetchImage(path, false)
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 3 || got.Y != 2 {
		t.Errorf("decoded size = %v, want 3x2", got)
	}
}

// TestFetchImageErrors verifies empty and missing sources fail.
func TestFetchImageErrors(t *testing.T) {
	if _, err := FetchImage("", false); err == nil {
		t.Error("FetchImage(\"\") succeeded, want error")
	}
	if _, err := FetchImage(filepath.Join(t.TempDir(), "absent.png"), false); err == nil {
		t.Error("FetchImage of a missing file succeeded, want error")
	}
}

// TestCacheName verifies cache files take the final URL path segment.
func TestCacheName(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain url", "https://example.com/media/a/abc123.jpg", "abc123.jpg"},
		{"query string ignored", "https://example.com/shot.png?size=large", "shot.png"},
		{"bare name", "texture.png", "texture.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheName(tt.url); got != tt.want {
				t.Errorf("cacheName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// TestGetCacheDir verifies the XDG path on platforms that use it.
func TestGetCacheDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CACHE_HOME only applies to the default branch")
	}

	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	dir, err := getCacheDir("media")
	if err != nil {
		t.Fatalf("getCacheDir failed: %v", err)
	}
	want := filepath.Join(base, "goscreenfx", "media")
	if dir != want {
		t.Errorf("getCacheDir = %q, want %q", dir, want)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("cache dir was not created: %v", err)
	}
}
