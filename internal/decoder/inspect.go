package decoder

import (
	"fmt"
	"image"
	"image/color"
	"os"
)

// Layout describes the native pixel layout of a decoded source.
type Layout struct {
	Width           int
	Height          int
	Channels        int
	BytesPerChannel int
}

// DataSize is the size of the raw pixel buffer in bytes.
func (l Layout) DataSize() uint64 {
	return uint64(l.Width) * uint64(l.Height) * uint64(l.Channels) * uint64(l.BytesPerChannel)
}

// Inspect decodes the image at path without orientation, scaling or channel
// conversion and reports its layout.
func Inspect(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w: %w", path, ErrNotFound, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Layout{}, fmt.Errorf("decode %s: %w: %w", path, ErrInvalid, err)
	}
	return LayoutOf(img), nil
}

// LayoutOf derives the channel count and depth from the concrete image type
// the codec produced. The PNG decoder returns the N-types only for sources
// with an alpha channel, so those are four channels even when fully opaque.
// Premultiplied types are colour-only unless some pixel is translucent.
func LayoutOf(img image.Image) Layout {
	b := img.Bounds()
	l := Layout{Width: b.Dx(), Height: b.Dy(), Channels: 3, BytesPerChannel: 1}

	switch m := img.(type) {
	case *image.Gray:
		l.Channels = 1
	case *image.Gray16:
		l.Channels, l.BytesPerChannel = 1, 2
	case *image.YCbCr:
		l.Channels = 3
	case *image.CMYK, *image.NRGBA, *image.NYCbCrA:
		l.Channels = 4
	case *image.NRGBA64:
		l.Channels, l.BytesPerChannel = 4, 2
	case *image.RGBA:
		l.Channels = alphaChannels(m.Opaque())
	case *image.RGBA64:
		l.Channels, l.BytesPerChannel = alphaChannels(m.Opaque()), 2
	case *image.Paletted:
		l.Channels = alphaChannels(paletteOpaque(m.Palette))
	}
	return l
}

func alphaChannels(opaque bool) int {
	if opaque {
		return 3
	}
	return 4
}

// paletteOpaque reports whether no palette entry carries transparency.
func paletteOpaque(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return false
		}
	}
	return true
}
