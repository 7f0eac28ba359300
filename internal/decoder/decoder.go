// Package decoder turns files and byte buffers into decoded images.
//
// Open and FromBytes feed the transform pipelines and apply EXIF orientation.
// Inspect reports the source's native pixel layout without any conversion.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotFound is wrapped by errors from a source path that cannot be opened.
	ErrNotFound = errors.New("source not found")
	// ErrInvalid is wrapped by errors from bytes that do not decode to an image.
	ErrInvalid = errors.New("invalid image data")
)

// Options controls how the transform pipelines decode.
type Options struct {
	// AutoOrient applies the EXIF orientation tag of JPEG sources.
	AutoOrient bool
}

// DefaultOptions matches how camera images are expected to be read.
func DefaultOptions() Options {
	return Options{AutoOrient: true}
}

// Open decodes the image at path.
func Open(path string, opts Options) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrNotFound, err)
	}
	defer f.Close()

	img, err := decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// FromBytes decodes an in-memory encoded image.
func FromBytes(data []byte, opts Options) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode: %w: empty input", ErrInvalid)
	}
	img, err := decode(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

func decode(r io.Reader, opts Options) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(opts.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image (%dx%d)", ErrInvalid, b.Dx(), b.Dy())
	}
	return img, nil
}
