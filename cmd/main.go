package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	glfwcontext "github.com/softlight/goscreenfx/glfwcontext"
	inputs "github.com/softlight/goscreenfx/inputs"
	options "github.com/softlight/goscreenfx/options"
	preview "github.com/softlight/goscreenfx/preview"
	renderer "github.com/softlight/goscreenfx/renderer"
	scene "github.com/softlight/goscreenfx/scene"
	shader "github.com/softlight/goscreenfx/shader"
	statsview "github.com/softlight/goscreenfx/statsview"
)

// newRenderer wires the scene's channel to the screen effect.
func newRenderer(sc *scene.Scene, opts *options.Options) *renderer.Renderer {
	channel, err := inputs.NewChannel(sc.Channel, opts)
	if err != nil {
		log.Fatalf("Failed to create channel: %v", err)
	}
	r, err := renderer.New(sc.Width, sc.Height, *opts.Workers, shader.ScreenBrighten{}, channel)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	return r
}

func runWindow(sc *scene.Scene, opts *options.Options) {
	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	r := newRenderer(sc, opts)
	defer r.Close()

	p, err := preview.New(sc, r, *opts.Software)
	if err != nil {
		log.Fatalf("Failed to create preview: %v", err)
	}
	defer p.Shutdown()

	log.Println("Starting interactive render loop...")
	p.Run()
}

func runStill(sc *scene.Scene, opts *options.Options) {
	r := newRenderer(sc, opts)
	defer r.Close()

	if err := r.RenderStill(*opts.OutputFile); err != nil {
		log.Fatalf("Still rendering failed: %v", err)
	}
}

func runOffscreen(sc *scene.Scene, opts *options.Options) {
	r := newRenderer(sc, opts)
	defer r.Close()

	log.Println("Starting offscreen render loop...")
	if err := r.RunOffscreen(opts); err != nil {
		log.Fatalf("Offscreen rendering failed: %v", err)
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
}

// resolveScene builds the job description from the flags: an explicit
// scene file wins, a bare input is wrapped in a default scene, and with
// neither the built-in test card runs.
func resolveScene(opts *options.Options) (*scene.Scene, error) {
	if *opts.Scene != "" {
		if *opts.Input != "" {
			log.Println("Warning: -input ignored when -scene is set")
		}
		return scene.Load(*opts.Scene)
	}
	if *opts.Input != "" {
		return scene.FromInput(*opts.Input), nil
	}
	log.Println("No scene or input given, using the built-in test card")
	return scene.Default(), nil
}

// applyOverrides lets flags win over scene values, then settles the
// options the render loops read back.
func applyOverrides(sc *scene.Scene, opts *options.Options) {
	if *opts.Width > 0 {
		sc.Width = *opts.Width
	}
	if *opts.Height > 0 {
		sc.Height = *opts.Height
	}
	if *opts.FPS > 0 {
		sc.FPS = *opts.FPS
	}
	if *opts.Wrap != "" {
		sc.Channel.Sampler.Wrap = *opts.Wrap
	}
	if *opts.Filter != "" {
		sc.Channel.Sampler.Filter = *opts.Filter
	}
	if *opts.VFlip {
		sc.Channel.Sampler.VFlip = "true"
	}
	*opts.FPS = sc.FPS

	if *opts.Duration == 0 {
		if sc.Duration > 0 {
			*opts.Duration = sc.Duration
		} else {
			*opts.Duration = 10.0
		}
	}

	if err := sc.Validate(); err != nil {
		log.Fatalf("Invalid scene after overrides: %v", err)
	}
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := &options.Options{}

	// Command-line flags
	opts.Scene = flag.String("scene", "", "Scene description file (JSON)")
	opts.Input = flag.String("input", "", "Screen texture source: image/video path or URL, or 'testcard'")
	opts.Mode = flag.String("mode", "window", "Run mode: window, image, record, stream")
	opts.Help = flag.Bool("help", false, "Show help message")

	// Surface and timing flags
	opts.Width = flag.Int("width", 0, "Width of the output (0 uses the scene value)")
	opts.Height = flag.Int("height", 0, "Height of the output (0 uses the scene value)")
	opts.FPS = flag.Int("fps", 0, "Frames per second (0 uses the scene value)")
	opts.Duration = flag.Float64("duration", 0, "Duration to record in seconds (0 uses the scene value, else 10)")
	opts.Workers = flag.Int("workers", 0, "Software render workers (0 uses GOMAXPROCS)")

	// Sampler overrides
	opts.Wrap = flag.String("wrap", "", "Override sampler wrap mode: clamp or repeat")
	opts.Filter = flag.String("filter", "", "Override sampler filter: linear or nearest")
	opts.VFlip = flag.Bool("vflip", false, "Flip the screen texture vertically")

	// Output flags
	opts.OutputFile = flag.String("output", "", "Output file (defaults: out.png for image, output.mp4 for record, output.ts for stream)")
	opts.Codec = flag.String("codec", "h264", "Video codec: h264 or hevc")
	opts.FFMPEGPath = flag.String("ffmpeg", "", "Path to ffmpeg executable")

	// Misc flags
	opts.Software = flag.Bool("software", false, "Render on the CPU in window mode")
	opts.Stats = flag.Bool("stats", false, "Serve runtime statistics while rendering")
	opts.NoCache = flag.Bool("nocache", false, "Skip the on-disk media cache")

	flag.Parse()

	if *opts.Help {
		fmt.Println("Screen Texture Effect Viewer/Recorder")
		flag.PrintDefaults()
		return
	}

	sc, err := resolveScene(opts)
	if err != nil {
		log.Fatalf("Error loading scene: %v", err)
	}
	applyOverrides(sc, opts)

	if *opts.Stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			log.Println("stats requested; rebuild with -tags statsview to enable the server")
		}
	}

	switch *opts.Mode {
	case "window":
		runWindow(sc, opts)
	case "image":
		if *opts.OutputFile == "" {
			*opts.OutputFile = "out.png"
		}
		runStill(sc, opts)
	case "record", "stream":
		if *opts.OutputFile == "" {
			if *opts.Mode == "stream" {
				*opts.OutputFile = "output.ts"
			} else {
				*opts.OutputFile = "output.mp4"
			}
		}
		runOffscreen(sc, opts)
	default:
		log.Fatalf("Unknown mode: %s", *opts.Mode)
	}
}
