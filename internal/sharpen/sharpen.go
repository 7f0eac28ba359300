// Package sharpen restores edge contrast lost to resampling.
package sharpen

import (
	"image"

	"github.com/disintegration/imaging"
)

// Kernel is the unit-sum 3×3 edge enhancement kernel, row major.
var Kernel = [9]float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// Apply convolves each colour channel of img with Kernel. Border pixels
// replicate their nearest neighbour, results are clamped to 8 bits and alpha
// is copied unchanged.
func Apply(img image.Image) *image.NRGBA {
	return imaging.Convolve3x3(img, Kernel, nil)
}
