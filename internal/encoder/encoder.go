package encoder

import (
	"errors"
	"fmt"
	"image"
)

// ErrEncode is wrapped by every failure to serialise an image.
var ErrEncode = errors.New("encode failed")

// MaxDimension is the largest width or height a JPEG frame header can hold.
const MaxDimension = 65535

// CheckGeometry fails with ErrEncode when a w×h image cannot be written as
// JPEG. Callers that build the raster themselves check before allocating it.
func CheckGeometry(w, h int) error {
	if w < 1 || h < 1 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds JPEG limit of %d", ErrEncode, w, h, MaxDimension)
	}
	return nil
}

// Options are the JPEG parameters every pipeline passes explicitly.
type Options struct {
	// Quality is the JPEG quality factor, 1-100.
	Quality int
	// Optimize requests optimised Huffman tables. Codecs that cannot build
	// them still encode, using their standard tables.
	Optimize bool
}

// Encoder serialises an image to JPEG bytes.
type Encoder interface {
	// Name identifies the codec backend, e.g. "libjpeg" or "image/jpeg".
	Name() string

	// Version describes the codec build.
	Version() string

	// Optimizes reports whether Options.Optimize has an effect.
	Optimizes() bool

	// Encode converts the image to JPEG bytes. It never returns an empty
	// slice with a nil error.
	Encode(img image.Image, opts Options) ([]byte, error)
}
