// renderer/offscreen.go
package renderer

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"time"

	inputs "github.com/softlight/goscreenfx/inputs"
	options "github.com/softlight/goscreenfx/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

const numBuffers = 3 // Frame channel depth between producer and encoder

// encoderArgs builds the FFmpeg argument maps for the offscreen modes.
// The input side describes the raw RGBA frames coming down the pipe; the
// output side picks a codec per platform.
func encoderArgs(opts *options.Options, width, height, fps int) (inputArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}

	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
	}

	switch runtime.GOOS {
	case "darwin":
		log.Println("Using macOS (VideoToolbox) hardware acceleration.")
		if *opts.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		log.Println("Using software encoding pipeline (no hardware acceleration).")
		if *opts.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}
	outputArgs["b:v"] = "25M"

	if *opts.Codec == "hevc" && strings.HasSuffix(*opts.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	if *opts.Mode == "stream" {
		outputArgs["f"] = "mpegts"
	} else if strings.HasSuffix(*opts.OutputFile, ".mp4") {
		outputArgs["movflags"] = "faststart"
	}
	return
}

// runEncoder is the Consumer. It feeds frames from frameChan into an
// FFmpeg process through a pipe.
func (r *Renderer) runEncoder(opts *options.Options, fps int, frameChan <-chan *Frame, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := encoderArgs(opts, r.width, r.height, fps)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(*opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if *opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*opts.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- ffmpegCmd.Run()
	}()

	for frame := range frameChan {
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing pixel data on frame %d: %v", frame.PTS, err)
			break
		}
	}

	pipeWriter.Close()
	doneChan <- <-errc
}

// RunOffscreen drives the headless modes. Record renders as fast as the
// CPU allows; stream paces rendering by the wall clock.
func (r *Renderer) RunOffscreen(opts *options.Options) error {
	if *opts.Mode == "stream" {
		return r.runStreamMode(opts)
	}
	return r.runRecordMode(opts)
}

// runStreamMode is a Producer. It renders frames in real time and sends
// them to the encoder.
func (r *Renderer) runStreamMode(opts *options.Options) error {
	log.Println("Starting in stream mode...")
	frameChan := make(chan *Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)

	go r.runEncoder(opts, *opts.FPS, frameChan, encoderDoneChan)

	startTime := time.Now()
	frameDuration := time.Second / time.Duration(*opts.FPS)
	var frameCounter int64 = 0

	for {
		select {
		case err := <-encoderDoneChan:
			log.Printf("Encoder finished with error: %v", err)
			return err
		default:
		}

		elapsedTime := time.Since(startTime)
		shouldHaveRendered := int64(float64(elapsedTime) / float64(frameDuration))

		if frameCounter >= shouldHaveRendered {
			time.Sleep(1 * time.Millisecond)
			continue
		}

		for frameCounter < shouldHaveRendered {
			simTime := float64(frameCounter) * frameDuration.Seconds()
			uniforms := &inputs.Uniforms{
				Time:      float32(simTime),
				TimeDelta: float32(frameDuration.Seconds()),
				FrameRate: float32(*opts.FPS),
				Frame:     int32(frameCounter),
			}

			fb, err := r.RenderFrame(uniforms)
			if err != nil {
				log.Printf("Error rendering frame %d: %v", frameCounter, err)
				close(frameChan)
				return <-encoderDoneChan
			}

			select {
			case frameChan <- &Frame{Pixels: fb.ToNRGBA().Pix, PTS: frameCounter}:
				frameCounter++
			default:
				log.Println("Warning: Frame channel is full. Dropping frame.")
				frameCounter++
			}
		}
	}
}

// runRecordMode is a Producer. It renders a fixed number of frames and
// sends them to the encoder.
func (r *Renderer) runRecordMode(opts *options.Options) error {
	log.Println("Starting in record mode...")
	frameChan := make(chan *Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)

	// Start the consumer goroutine
	go r.runEncoder(opts, *opts.FPS, frameChan, encoderDoneChan)

	totalFrames := int(*opts.Duration * float64(*opts.FPS))
	timeStep := 1.0 / float64(*opts.FPS)

	for i := 0; i < totalFrames; i++ {
		currentTime := float64(i) * timeStep
		uniforms := &inputs.Uniforms{
			Time:      float32(currentTime),
			TimeDelta: float32(timeStep),
			FrameRate: float32(*opts.FPS),
			Frame:     int32(i),
		}

		fb, err := r.RenderFrame(uniforms)
		if err != nil {
			log.Printf("Error rendering frame %d: %v", i, err)
			break
		}

		// ToNRGBA allocates per call, so the encoder owns these bytes.
		frameChan <- &Frame{Pixels: fb.ToNRGBA().Pix, PTS: int64(i)}
	}

	// Close the channel to signal the producer is done
	close(frameChan)

	// Wait for the consumer to finish
	return <-encoderDoneChan
}
