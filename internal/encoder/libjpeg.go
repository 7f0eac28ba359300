//go:build libjpeg

package encoder

import (
	"bytes"
	"fmt"
	"image"

	libjpeg "github.com/pixiv/go-libjpeg/jpeg"
)

// LibJPEG encodes through the system libjpeg and builds optimised Huffman
// tables when asked. Requires cgo and the libjpeg build tag.
type LibJPEG struct{}

func (e *LibJPEG) Name() string    { return "libjpeg" }
func (e *LibJPEG) Version() string { return "libjpeg (github.com/pixiv/go-libjpeg)" }
func (e *LibJPEG) Optimizes() bool { return true }

func (e *LibJPEG) Encode(img image.Image, opts Options) ([]byte, error) {
	if err := checkQuality(opts.Quality); err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return nil, CheckGeometry(b.Dx(), b.Dy())
	}

	var buf bytes.Buffer
	buf.Grow(estimateSize(img))

	err := libjpeg.Encode(&buf, img, &libjpeg.EncoderOptions{
		Quality:        opts.Quality,
		OptimizeCoding: opts.Optimize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: libjpeg: %w", ErrEncode, err)
	}
	return nonEmpty(buf.Bytes())
}

func libJPEG() Encoder { return &LibJPEG{} }
