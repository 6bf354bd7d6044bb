package options

type Options struct {
	Help       *bool
	Mode       *string
	Scene      *string
	Input      *string
	OutputFile *string
	Duration   *float64
	FPS        *int
	Width      *int
	Height     *int
	Workers    *int
	Wrap       *string
	Filter     *string
	VFlip      *bool
	Codec      *string
	FFMPEGPath *string
	Software   *bool // Render on the CPU in window mode and present through the blit path
	Stats      *bool // Serve runtime statistics while rendering (needs the statsview build tag)
	NoCache    *bool // Skip the on-disk media cache for remote sources
}
