package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"runtime"
)

// StdJPEG encodes with Go's standard library. It is always available but
// writes the standard Huffman tables regardless of Options.Optimize.
type StdJPEG struct{}

func (e *StdJPEG) Name() string    { return "image/jpeg" }
func (e *StdJPEG) Version() string { return "image/jpeg " + runtime.Version() }
func (e *StdJPEG) Optimizes() bool { return false }

func (e *StdJPEG) Encode(img image.Image, opts Options) ([]byte, error) {
	if err := checkQuality(opts.Quality); err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return nil, CheckGeometry(b.Dx(), b.Dy())
	}

	var buf bytes.Buffer
	buf.Grow(estimateSize(img))

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("%w: image/jpeg: %w", ErrEncode, err)
	}
	return nonEmpty(buf.Bytes())
}

func checkQuality(q int) error {
	if q < 1 || q > 100 {
		return fmt.Errorf("%w: quality %d outside 1-100", ErrEncode, q)
	}
	return nil
}

func nonEmpty(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: codec produced no bytes", ErrEncode)
	}
	return data, nil
}

// estimateSize pre-sizes the output buffer: about one byte per 6 pixels
// for typical photos, capped at 4 MB.
func estimateSize(img image.Image) int {
	b := img.Bounds()
	n := b.Dx() * b.Dy() / 6
	switch {
	case n < 16*1024:
		return 16 * 1024
	case n > 4<<20:
		return 4 << 20
	}
	return n
}
