// Package scaler computes output dimensions and resamples images.
//
// Two sizing policies exist. FitWithin is used when recompressing: it only
// ever shrinks, keeping the image inside a bounding box. ToWidth is used for
// thumbnails: it always produces the requested width, upscaling if needed.
package scaler

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// lanczosLobes is the half-width of the Lanczos window in source pixels.
const lanczosLobes = 4.0

// Lanczos4 is a separable 4-lobe windowed-sinc filter.
var Lanczos4 = imaging.ResampleFilter{
	Support: lanczosLobes,
	Kernel:  lanczos4,
}

func lanczos4(x float64) float64 {
	x = math.Abs(x)
	if x == 0 {
		return 1
	}
	if x >= lanczosLobes {
		return 0
	}
	xpi := x * math.Pi
	return lanczosLobes * math.Sin(xpi) * math.Sin(xpi/lanczosLobes) / (xpi * xpi)
}

// FitWithin returns the dimensions of a w×h image shrunk uniformly to fit
// inside maxW×maxH. Images that already fit are returned unchanged with
// resized == false. Each dimension is floored and then clamped to at least 1.
func FitWithin(w, h, maxW, maxH int) (nw, nh int, resized bool) {
	if w <= maxW && h <= maxH {
		return w, h, false
	}
	// scale = min(maxW/w, maxH/h), compared and applied in integers so the
	// bound dimension lands exactly on its limit.
	if int64(maxW)*int64(h) <= int64(maxH)*int64(w) {
		nw, nh = maxW, int(int64(h)*int64(maxW)/int64(w))
	} else {
		nw, nh = int(int64(w)*int64(maxH)/int64(h)), maxH
	}
	return atLeastOne(nw), atLeastOne(nh), true
}

// ToWidth returns target × round(target·h/w). Upscaling is allowed.
func ToWidth(w, h, target int) (nw, nh int) {
	nh = int(math.Round(float64(target) * float64(h) / float64(w)))
	return target, atLeastOne(nh)
}

// Resample resizes img to exactly w×h with the Lanczos4 filter. Weights near
// the borders are renormalised over the pixels that exist (edge clamping).
func Resample(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, Lanczos4)
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
