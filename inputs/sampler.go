// inputs/sampler.go
package inputs

import "log"

// WrapMode controls how out-of-range texture coordinates resolve.
type WrapMode int

const (
	// WrapClamp clamps coordinates to the edge texel.
	WrapClamp WrapMode = iota
	// WrapRepeat tiles the texture.
	WrapRepeat
)

func (m WrapMode) String() string {
	switch m {
	case WrapRepeat:
		return "repeat"
	default:
		return "clamp"
	}
}

// FilterMode controls texel filtering during sampling.
type FilterMode int

const (
	// FilterLinear interpolates the 2x2 neighborhood around the sample.
	FilterLinear FilterMode = iota
	// FilterNearest selects the nearest texel.
	FilterNearest
)

func (m FilterMode) String() string {
	switch m {
	case FilterNearest:
		return "nearest"
	default:
		return "linear"
	}
}

// ParseWrap converts a sampler wrap string to a WrapMode. Unknown values
// fall back to clamp-to-edge.
func ParseWrap(wrap string) WrapMode {
	switch wrap {
	case "repeat":
		return WrapRepeat
	case "clamp", "":
		return WrapClamp
	default:
		log.Printf("unknown wrap mode %q, using clamp", wrap)
		return WrapClamp
	}
}

// ParseFilter converts a sampler filter string to a FilterMode. "mipmap"
// degrades to linear; the software sampler keeps no mip chain.
func ParseFilter(filter string) FilterMode {
	switch filter {
	case "nearest":
		return FilterNearest
	case "linear", "":
		return FilterLinear
	case "mipmap":
		log.Printf("mipmap filtering not available in the software sampler, using linear")
		return FilterLinear
	default:
		log.Printf("unknown filter mode %q, using linear", filter)
		return FilterLinear
	}
}

// wrapCoord resolves an integer texel coordinate against the axis size.
func wrapCoord(i, n int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default:
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}
