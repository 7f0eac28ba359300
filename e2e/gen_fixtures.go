//go:build ignore

// gen_fixtures creates a small image tree for a batch smoke test:
//
//	go run e2e/gen_fixtures.go /tmp/fixtures
//	go run . batch /tmp/fixtures -o /tmp/out --thumb-width 64
//	go run . validate /tmp/out
//
// It writes one oversized photo (to exercise the bounding box), nested PNG
// cards, an image with alpha, a BMP, and one corrupt file that must show up
// as a single failed item in the report.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "cards"), 0o755))

	// Larger than the default 1920x1080 box in both directions.
	writeJPEG(filepath.Join(dir, "panorama.jpg"), gradient(2400, 1200))

	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		writePNG(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)))
	}

	writePNG(filepath.Join(dir, "logo.png"), alphaGradient(100, 100))

	f, err := os.Create(filepath.Join(dir, "scan.bmp"))
	must(err)
	must(bmp.Encode(f, gradient(64, 48)))
	must(f.Close())

	must(os.WriteFile(filepath.Join(dir, "corrupt.jpg"), []byte("\xff\xd8\xff\xe0 truncated"), 0o644))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x ^ y) & 0xff),
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: uint8(x * 255 / w)})
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(png.Encode(f, img))
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(jpeg.Encode(f, img, &jpeg.Options{Quality: 92}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
