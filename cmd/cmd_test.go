package cmd

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/e-illusion/ICPT-S/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "1920x1080")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "thumbnail")
}

func TestCompressAndInfoCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jpg")
	out := filepath.Join(dir, "out.jpg")
	writeTestJPEG(t, in, 200, 100)

	stdout, err := run(t, "compress", in, out, "--max-width", "50", "--max-height", "50", "-q", "70")
	require.NoError(t, err)
	assert.Contains(t, stdout, "200x100 -> 50x25")

	stdout, err = run(t, "info", out)
	require.NoError(t, err)
	var got struct {
		Path   string `json:"path"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 50, got.Width)
	assert.Equal(t, 25, got.Height)
	assert.Equal(t, "jpg", got.Format)
}

func TestBatchCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	metrics := filepath.Join(t.TempDir(), "imgproc.prom")
	writeTestJPEG(t, filepath.Join(in, "a.jpg"), 120, 80)
	writeTestJPEG(t, filepath.Join(in, "sub", "b.jpg"), 80, 120)

	stdout, err := run(t, "batch", in, "-o", out, "--preset", "thumbnail", "--thumb-width", "30", "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Contains(t, stdout, "batch complete")

	r, err := report.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "thumbnail", r.Preset)
	assert.Equal(t, 2, r.Stats.Succeeded)
	assert.Equal(t, 2, r.Stats.Thumbnails)
	assert.FileExists(t, filepath.Join(out, "sub", "b.thumb.jpg"))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `imageproc_operations_total{code="success",op="compress"} 2`)

	stdout, err = run(t, "validate", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Report is valid")

	stdout, err = run(t, "stats", filepath.Join(out, report.FileName))
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 ok, 0 failed")
	assert.Regexp(t, `jpeg\s+2 images`, stdout)
}

func TestThumbnailCommand_InvalidWidth(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jpg")
	writeTestJPEG(t, in, 10, 10)

	_, err := run(t, "thumbnail", in, filepath.Join(dir, "t.jpg"), "--width", "0")
	assert.Error(t, err)
}
