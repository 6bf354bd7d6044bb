// inputs/video.go
package inputs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	options "github.com/softlight/goscreenfx/options"
	scene "github.com/softlight/goscreenfx/scene"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoChannel streams a video source into the screen texture. Frames are
// decoded by an external ffmpeg process writing raw RGBA through a pipe;
// each Update consumes exactly one frame. The decode rate is resampled to
// the render rate, so frame N of the render sees frame N of the decode.
type VideoChannel struct {
	ctype      string
	texture    *Texture
	resolution [3]float32
	width      int
	height     int
	reader     *io.PipeReader
	buf        []byte
	eof        bool
	closed     bool
}

// NewVideoChannel probes the source for its dimensions and starts the
// decode. The texture holds the video's native size; the sampler stretches
// it over the output surface.
func NewVideoChannel(src string, sampler scene.Sampler, opts *options.Options) (*VideoChannel, error) {
	if src == "" {
		return nil, fmt.Errorf("video channel has no source")
	}

	width, height, err := probeVideoSize(src)
	if err != nil {
		return nil, err
	}

	tex, err := NewTexture(width, height, ParseWrap(sampler.Wrap), ParseFilter(sampler.Filter))
	if err != nil {
		return nil, err
	}

	inputArgs := ffmpeg.KwArgs{}
	if *opts.Mode == "stream" {
		// Emulate the native frame rate so live outputs stay live.
		inputArgs["re"] = ""
	}
	outputArgs := ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"an":      "",
	}
	if *opts.FPS > 0 {
		outputArgs["r"] = *opts.FPS
	}

	pipeReader, pipeWriter := io.Pipe()
	stream := ffmpeg.Input(src, inputArgs).
		Output("pipe:", outputArgs).
		WithOutput(pipeWriter).
		ErrorToStdOut()
	if *opts.FFMPEGPath != "" {
		stream = stream.SetFfmpegPath(*opts.FFMPEGPath)
	}

	go func() {
		if err := stream.Run(); err != nil {
			pipeWriter.CloseWithError(fmt.Errorf("video decode: %w", err))
			return
		}
		pipeWriter.Close()
	}()

	c := &VideoChannel{
		ctype:      "video",
		texture:    tex,
		resolution: tex.Resolution(),
		width:      width,
		height:     height,
		reader:     pipeReader,
		buf:        make([]byte, width*height*4),
	}
	return c, nil
}

// probeVideoSize asks ffprobe for the dimensions of the first video stream.
func probeVideoSize(src string) (int, int, error) {
	data, err := ffmpeg.Probe(src)
	if err != nil {
		return 0, 0, fmt.Errorf("probing %s: %w", src, err)
	}
	width, height, err := videoStreamSize(data)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", src, err)
	}
	return width, height, nil
}

// videoStreamSize picks the first video stream's dimensions out of probe
// output.
func videoStreamSize(data string) (int, int, error) {
	var probed struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(data), &probed); err != nil {
		return 0, 0, fmt.Errorf("parsing probe output: %w", err)
	}
	for _, s := range probed.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, fmt.Errorf("no video stream found")
}

// --- Channel Interface Implementation ---

func (c *VideoChannel) CType() string {
	return c.ctype
}

func (c *VideoChannel) Update(uniforms *Uniforms) error {
	if c.eof || c.closed {
		// Hold the last decoded frame.
		return nil
	}
	if _, err := io.ReadFull(c.reader, c.buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			log.Printf("video channel: end of stream, holding last frame")
			c.eof = true
			return nil
		}
		return fmt.Errorf("reading video frame: %w", err)
	}
	texels := c.texture.Pix()
	for i, b := range c.buf {
		texels[i] = float32(b) / 255.0
	}
	return nil
}

func (c *VideoChannel) Texture() *Texture {
	return c.texture
}

func (c *VideoChannel) ChannelRes() [3]float32 {
	return c.resolution
}

func (c *VideoChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	// Closing the read side makes the decoder's next write fail, which
	// stops the ffmpeg process.
	return c.reader.Close()
}
