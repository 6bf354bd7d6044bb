// renderer/still.go
package renderer

import (
	"fmt"
	"image/png"
	"log"
	"os"

	inputs "github.com/softlight/goscreenfx/inputs"
)

// RenderStill renders a single frame at time zero and writes it as PNG.
func (r *Renderer) RenderStill(outputFile string) error {
	uniforms := &inputs.Uniforms{}
	fb, err := r.RenderFrame(uniforms)
	if err != nil {
		return fmt.Errorf("rendering still: %w", err)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputFile, err)
	}
	if err := png.Encode(f, fb.ToNRGBA()); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", outputFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outputFile, err)
	}

	log.Printf("wrote %s (%dx%d)", outputFile, fb.Width(), fb.Height())
	return nil
}
