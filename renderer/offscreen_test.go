package renderer

import (
	"fmt"
	"runtime"
	"testing"

	options "github.com/softlight/goscreenfx/options"
)

func encoderOptions(mode, codec, output string) *options.Options {
	fps := 30
	ffmpegPath := ""
	return &options.Options{
		Mode:       &mode,
		Codec:      &codec,
		OutputFile: &output,
		FPS:        &fps,
		FFMPEGPath: &ffmpegPath,
	}
}

// expectedCodec mirrors the per-platform codec pick.
func expectedCodec(codec string) string {
	if runtime.GOOS == "darwin" {
		if codec == "hevc" {
			return "hevc_videotoolbox"
		}
		return "h264_videotoolbox"
	}
	if codec == "hevc" {
		return "libx265"
	}
	return "libx264"
}

// TestEncoderArgsInput verifies the raw frame description on the input
// side of the pipe.
func TestEncoderArgsInput(t *testing.T) {
	opts := encoderOptions("record", "h264", "out.mp4")
	inputArgs, _ := encoderArgs(opts, 640, 360, 30)

	want := map[string]string{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         "640x360",
		"framerate": "30",
	}
	for k, v := range want {
		if got := fmt.Sprint(inputArgs[k]); got != v {
			t.Errorf("input %q = %q, want %q", k, got, v)
		}
	}
}

// TestEncoderArgsOutput verifies codec and container decisions per mode.
func TestEncoderArgsOutput(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		codec   string
		output  string
		want    map[string]string
		without []string
	}{
		{
			name:   "h264 mp4 record",
			mode:   "record",
			codec:  "h264",
			output: "out.mp4",
			want: map[string]string{
				"pix_fmt":  "yuv420p",
				"c:v":      expectedCodec("h264"),
				"b:v":      "25M",
				"movflags": "faststart",
			},
			without: []string{"tag:v", "f"},
		},
		{
			name:   "hevc mp4 gets hvc1 tag",
			mode:   "record",
			codec:  "hevc",
			output: "out.mp4",
			want: map[string]string{
				"c:v":      expectedCodec("hevc"),
				"tag:v":    "hvc1",
				"movflags": "faststart",
			},
		},
		{
			name:    "mkv record skips mp4 flags",
			mode:    "record",
			codec:   "hevc",
			output:  "out.mkv",
			want:    map[string]string{"c:v": expectedCodec("hevc")},
			without: []string{"movflags", "tag:v"},
		},
		{
			name:    "stream wraps in mpegts",
			mode:    "stream",
			codec:   "h264",
			output:  "udp://127.0.0.1:9999",
			want:    map[string]string{"f": "mpegts"},
			without: []string{"movflags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := encoderOptions(tt.mode, tt.codec, tt.output)
			_, outputArgs := encoderArgs(opts, 320, 320, 30)

			for k, v := range tt.want {
				if got := fmt.Sprint(outputArgs[k]); got != v {
					t.Errorf("output %q = %q, want %q", k, got, v)
				}
			}
			for _, k := range tt.without {
				if _, ok := outputArgs[k]; ok {
					t.Errorf("output unexpectedly sets %q = %v", k, outputArgs[k])
				}
			}
		})
	}
}
