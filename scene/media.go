// scene/media.go
package scene

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	// Blank imports for image decoders so image.Decode can handle them.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Global client with a custom User-Agent header.
var httpClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	},
}

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "github.com/softlight/goscreenfx")
	return t.Transport.RoundTrip(req)
}

func init() {
	httpClient.Transport = &headerTransport{Transport: http.DefaultTransport}
}

// getCacheDir determines the appropriate OS-specific cache directory.
func getCacheDir(subdir string) (string, error) {
	var baseCacheDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		baseCacheDir = os.Getenv("LOCALAPPDATA")
		if baseCacheDir == "" {
			err = fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			err = fmt.Errorf("HOME environment variable not set")
		} else {
			baseCacheDir = filepath.Join(homeDir, "Library", "Caches")
		}
	default: // linux, bsd, etc.
		baseCacheDir = os.Getenv("XDG_CACHE_HOME")
		if baseCacheDir == "" {
			homeDir := os.Getenv("HOME")
			if homeDir == "" {
				err = fmt.Errorf("HOME environment variable not set")
			} else {
				baseCacheDir = filepath.Join(homeDir, ".cache")
			}
		}
	}

	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(baseCacheDir, "goscreenfx", subdir)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory at %s: %w", cacheDir, err)
	}

	return cacheDir, nil
}

// FetchImage loads an image from a local path or an http(s) URL. Remote
// fetches are cached under the user cache directory unless useCache is
// false.
func FetchImage(src string, useCache bool) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("image source is empty")
	}

	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("opening image %s: %w", src, err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding image %s: %w", src, err)
		}
		return img, nil
	}

	return fetchRemoteImage(src, useCache)
}

func fetchRemoteImage(mediaURL string, useCache bool) (image.Image, error) {
	var cachePath string
	if useCache {
		cacheDir, err := getCacheDir("media")
		if err != nil {
			log.Printf("Warning: media cache unavailable: %v", err)
			useCache = false
		} else {
			cachePath = filepath.Join(cacheDir, cacheName(mediaURL))
		}
	}

	if useCache {
		if f, err := os.Open(cachePath); err == nil {
			img, _, err := image.Decode(f)
			f.Close()
			if err == nil {
				return img, nil
			}
			log.Printf("Warning: could not decode cached image %s: %v. Redownloading...", cachePath, err)
		}
	}

	resp, err := httpClient.Get(mediaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download media %s: %w", mediaURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load media %s, status code: %d", mediaURL, resp.StatusCode)
	}

	// Read into a buffer to allow both decoding and saving
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media data from %s: %w", mediaURL, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode downloaded image from %s: %w", mediaURL, err)
	}

	if useCache {
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			log.Printf("Warning: failed to save media to cache at %s: %v", cachePath, err)
		}
	}

	return img, nil
}

// cacheName derives a cache file name from the final path segment of the
// media URL.
func cacheName(mediaURL string) string {
	if u, err := url.Parse(mediaURL); err == nil && u.Path != "" {
		return filepath.Base(u.Path)
	}
	return filepath.Base(mediaURL)
}
