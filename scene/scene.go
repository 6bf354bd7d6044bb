// Package scene describes render jobs: the output surface, the timing,
// and the single channel that provides the screen texture.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultWidth and DefaultHeight match the 320x320 surface of the
	// host this tool descends from.
	DefaultWidth  = 320
	DefaultHeight = 320
	DefaultFPS    = 60
)

// Sampler mirrors the sampler block of a channel description. VFlip is a
// string boolean ("true"/"false") for symmetry with the JSON this format
// grew out of.
type Sampler struct {
	Filter string `json:"filter"`
	Wrap   string `json:"wrap"`
	VFlip  string `json:"vflip"`
}

// ChannelDesc describes the screen-texture source.
type ChannelDesc struct {
	CType   string  `json:"ctype"`
	Src     string  `json:"src"`
	Sampler Sampler `json:"sampler"`
}

// Scene is a render job description.
type Scene struct {
	Name     string       `json:"name"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	FPS      int          `json:"fps"`
	Duration float64      `json:"duration"`
	Channel  *ChannelDesc `json:"channel"`
}

// Load reads, validates and defaults a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", path, err)
	}
	return &s, nil
}

// Default is the out-of-the-box job: the built-in test card on the
// default surface.
func Default() *Scene {
	s := &Scene{
		Name: "testcard",
		Channel: &ChannelDesc{
			CType: "testcard",
		},
	}
	s.ApplyDefaults()
	return s
}

// FromInput builds a scene around a bare input argument, classifying the
// source by scheme and extension.
func FromInput(src string) *Scene {
	s := Default()
	if src == "" || src == "testcard" {
		return s
	}
	s.Name = filepath.Base(src)
	s.Channel = &ChannelDesc{
		CType: classifySource(src),
		Src:   src,
	}
	return s
}

// classifySource guesses a ctype for a bare source string.
func classifySource(src string) string {
	for _, scheme := range []string{"rtsp://", "rtmp://", "udp://", "srt://"} {
		if strings.HasPrefix(src, scheme) {
			return "video"
		}
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".mp4", ".mov", ".mkv", ".webm", ".avi", ".ts", ".m3u8":
		return "video"
	default:
		// Anything else gets a decode attempt as an image.
		return "image"
	}
}

// ApplyDefaults fills unset fields with the standard surface and rate.
func (s *Scene) ApplyDefaults() {
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.FPS == 0 {
		s.FPS = DefaultFPS
	}
	if s.Channel != nil {
		if s.Channel.Sampler.Wrap == "" {
			s.Channel.Sampler.Wrap = "clamp"
		}
		if s.Channel.Sampler.Filter == "" {
			s.Channel.Sampler.Filter = "linear"
		}
		if s.Channel.Sampler.VFlip == "" {
			s.Channel.Sampler.VFlip = "false"
		}
	}
}

// Validate rejects scenes the renderer cannot run.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid surface dimensions %dx%d", s.Width, s.Height)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", s.FPS)
	}
	if s.Duration < 0 {
		return fmt.Errorf("invalid duration %f", s.Duration)
	}
	if s.Channel == nil {
		return fmt.Errorf("scene has no channel")
	}
	switch s.Channel.CType {
	case "image", "video":
		if s.Channel.Src == "" {
			return fmt.Errorf("%s channel has no src", s.Channel.CType)
		}
	case "testcard":
	default:
		return fmt.Errorf("unknown channel ctype %q", s.Channel.CType)
	}
	return nil
}
