package inputs

import (
	"fmt"
	"log"

	options "github.com/softlight/goscreenfx/options"
	scene "github.com/softlight/goscreenfx/scene"
)

// NewChannel builds the screen-texture source a scene channel describes.
func NewChannel(desc *scene.ChannelDesc, opts *options.Options) (Channel, error) {
	if desc == nil {
		return nil, fmt.Errorf("scene has no channel description")
	}

	switch desc.CType {
	case "image":
		img, err := scene.FetchImage(desc.Src, !*opts.NoCache)
		if err != nil {
			return nil, fmt.Errorf("loading image channel %q: %w", desc.Src, err)
		}
		ch, err := NewImageChannel(img, desc.Sampler)
		if err != nil {
			return nil, fmt.Errorf("creating image channel %q: %w", desc.Src, err)
		}
		res := ch.ChannelRes()
		log.Printf("initialized image channel from %s (%dx%d)", desc.Src, int(res[0]), int(res[1]))
		return ch, nil
	case "video":
		ch, err := NewVideoChannel(desc.Src, desc.Sampler, opts)
		if err != nil {
			return nil, fmt.Errorf("creating video channel %q: %w", desc.Src, err)
		}
		res := ch.ChannelRes()
		log.Printf("initialized video channel from %s (%dx%d)", desc.Src, int(res[0]), int(res[1]))
		return ch, nil
	case "testcard":
		ch, err := NewTestCardChannel(desc.Sampler)
		if err != nil {
			return nil, fmt.Errorf("creating test card channel: %w", err)
		}
		log.Printf("initialized test card channel (%dx%d)", testCardSize, testCardSize)
		return ch, nil
	default:
		return nil, fmt.Errorf("unknown channel ctype %q", desc.CType)
	}
}
