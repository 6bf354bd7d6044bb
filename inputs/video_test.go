package inputs

import (
	"strings"
	"testing"

	scene "github.com/softlight/goscreenfx/scene"
)

// TestVideoStreamSize verifies dimension extraction from probe output,
// including sources whose first stream is not video.
func TestVideoStreamSize(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantWidth  int
		wantHeight int
	}{
		{
			name: "single video stream",
			data: `{"streams":[{"codec_type":"video","width":1920,"height":1080}],
				"format":{"duration":"12.5"}}`,
			wantWidth:  1920,
			wantHeight: 1080,
		},
		{
			name: "audio stream first",
			data: `{"streams":[
				{"codec_type":"audio","sample_rate":"44100"},
				{"codec_type":"video","width":640,"height":360}]}`,
			wantWidth:  640,
			wantHeight: 360,
		},
		{
			name: "skips zero-sized video stream",
			data: `{"streams":[
				{"codec_type":"video","width":0,"height":0},
				{"codec_type":"video","width":320,"height":240}]}`,
			wantWidth:  320,
			wantHeight: 240,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height, err := videoStreamSize(tt.data)
			if err != nil {
				t.Fatalf("videoStreamSize failed: %v", err)
			}
			if width != tt.wantWidth || height != tt.wantHeight {
				t.Errorf("videoStreamSize = %dx%d, want %dx%d",
					width, height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

// TestVideoStreamSizeErrors verifies malformed and video-less probe
// output fail.
func TestVideoStreamSizeErrors(t *testing.T) {
	if _, _, err := videoStreamSize("{not json"); err == nil {
		t.Error("videoStreamSize on malformed JSON succeeded, want error")
	}

	audioOnly := `{"streams":[{"codec_type":"audio","sample_rate":"48000"}]}`
	_, _, err := videoStreamSize(audioOnly)
	if err == nil {
		t.Fatal("videoStreamSize on audio-only probe succeeded, want error")
	}
	if !strings.Contains(err.Error(), "no video stream") {
		t.Errorf("error %q does not name the missing stream", err)
	}
}

// TestNewVideoChannelNoSource verifies construction fails before any
// process is spawned when the source is empty.
func TestNewVideoChannelNoSource(t *testing.T) {
	if _, err := NewVideoChannel("", scene.Sampler{}, testOptions()); err == nil {
		t.Error("NewVideoChannel(\"\") succeeded, want error")
	}
}
