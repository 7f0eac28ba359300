package imageproc

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_JPEG(t *testing.T) {
	dir := t.TempDir()
	path := writeJPEG(t, dir, "photo.JPG", 64, 32)

	info, err := Info(path)
	require.NoError(t, err)
	assert.EqualValues(t, 64, info.Width)
	assert.EqualValues(t, 32, info.Height)
	assert.EqualValues(t, 3, info.Channels)
	assert.EqualValues(t, 64*32*3, info.DataSize)
	assert.Equal(t, "jpg", info.Format.String())
}

func TestInfo_Channels(t *testing.T) {
	dir := t.TempDir()

	gray := image.NewGray(image.Rect(0, 0, 8, 4))
	info, err := Info(writePNG(t, dir, "gray.png", gray))
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.Channels)
	assert.EqualValues(t, 32, info.DataSize)

	alpha := makeTestImage(8, 4)
	alpha.SetNRGBA(0, 0, translucent)
	info, err = Info(writePNG(t, dir, "alpha.png", alpha))
	require.NoError(t, err)
	assert.EqualValues(t, 4, info.Channels)
	assert.EqualValues(t, 8*4*4, info.DataSize)
	assert.Equal(t, "png", info.Format.String())
}

func TestInfo_Idempotent(t *testing.T) {
	path := writeJPEG(t, t.TempDir(), "a.jpeg", 17, 9)
	first, err := Info(path)
	require.NoError(t, err)
	second, err := Info(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInfo_FormatIgnoresContent(t *testing.T) {
	dir := t.TempDir()
	data := encodeJPEG(t, makeTestImage(10, 10))
	path := filepath.Join(dir, "really-a-jpeg.png")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	info, err := Info(path)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format.String())
}

func TestInfo_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "bad.jpg")
	require.NoError(t, os.WriteFile(garbage, []byte("nope"), 0o644))

	_, err := Info("")
	assert.Equal(t, InvalidParams, CodeOf(err))
	_, err = Info(filepath.Join(dir, "missing.jpg"))
	assert.Equal(t, FileNotFound, CodeOf(err))
	_, err = Info(garbage)
	assert.Equal(t, InvalidImage, CodeOf(err))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.jpg", "jpg"},
		{"PHOTO.JPEG", "jpeg"},
		{"archive.tar.gz", "gz"},
		{"/some.dir/file", "dir/file"},
		{"noext", "unknown"},
		{"trailing.", ""},
		{"x." + strings.Repeat("a", 40), strings.Repeat("a", MaxFormatLen)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path).String())
		})
	}
}

func TestNewFormatName_TruncatesOnRuneBoundary(t *testing.T) {
	// 14 ASCII bytes then a 2-byte rune straddling the limit.
	f := NewFormatName(strings.Repeat("a", 14) + "é")
	assert.Equal(t, strings.Repeat("a", 14), f.String())
	assert.LessOrEqual(t, len(f.String()), MaxFormatLen)
}

func TestImageInfo_JSON(t *testing.T) {
	info := ImageInfo{Width: 2, Height: 3, Channels: 3, DataSize: 18, Format: NewFormatName("WEBP")}
	out, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":2,"height":3,"channels":3,"data_size":18,"format":"webp"}`, string(out))
}
