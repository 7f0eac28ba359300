package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/e-illusion/ICPT-S/internal/hasher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := New("default")
	r.RunInfo = &RunInfo{Workers: 4, Codec: "image/jpeg", Quality: 85, MaxWidth: 1920, MaxHeight: 1080}
	r.Items = []Item{
		{
			Source:    "cards/a.png",
			Status:    "success",
			InputSize: 1000,
			Original:  &Dims{Width: 800, Height: 600},
			Output:    &Output{Path: "cards/a.jpg", Width: 800, Height: 600, Size: 400, Hash: "0123456789abcdef"},
			Thumbnail: &Output{Path: "cards/a.thumb.jpg", Width: 150, Height: 113, Size: 50, Hash: "fedcba9876543210"},
		},
		{
			Source:    "broken.jpg",
			Code:      -2,
			Status:    "invalid image",
			Error:     "imageproc: compress broken.jpg: invalid image",
			InputSize: 77,
		},
	}
	return r
}

func TestReportRoundtrip(t *testing.T) {
	r := sampleReport()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, WriteJSON(r, path))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, SupportedVersion, got.Version)
	assert.Equal(t, "default", got.Preset)
	require.NotNil(t, got.RunInfo)
	assert.Equal(t, 4, got.RunInfo.Workers)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].OK())
	assert.False(t, got.Items[1].OK())
	assert.Nil(t, got.Items[1].Output)

	assert.Equal(t, Stats{
		TotalInputBytes:  1000,
		TotalOutputBytes: 450,
		TotalItems:       2,
		Succeeded:        1,
		Failed:           1,
		Thumbnails:       1,
	}, got.Stats)
}

func TestReadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSON(New("high"), filepath.Join(dir, FileName)))

	r, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "high", r.Preset)
	assert.NotNil(t, r.Items)
}

func TestWriteJSONLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSON(sampleReport(), filepath.Join(dir, FileName)))
	require.NoError(t, WriteJSON(sampleReport(), filepath.Join(dir, FileName)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName, entries[0].Name())
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"preset": "default",
		"future_field": "ignored",
		"run_info": { "workers": 8, "codec": "libjpeg", "quality": 85, "new_flag": true },
		"items": [],
		"stats": { "total_items": 0, "new_stat": 42 }
	}`

	var r Report
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, 1, r.Version)
	require.NotNil(t, r.RunInfo)
	assert.Equal(t, "libjpeg", r.RunInfo.Codec)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cards"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards", "a.jpg"), make([]byte, 400), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards", "a.thumb.jpg"), make([]byte, 50), 0o644))

	r := sampleReport()
	r.ComputeStats()
	var err error
	r.Items[0].Output.Hash, _, err = hasher.FileDigest(filepath.Join(dir, "cards", "a.jpg"))
	require.NoError(t, err)
	r.Items[0].Thumbnail.Hash, _, err = hasher.FileDigest(filepath.Join(dir, "cards", "a.thumb.jpg"))
	require.NoError(t, err)
	assert.Empty(t, Verify(r, dir))

	// Same size, different bytes.
	tampered := make([]byte, 400)
	tampered[7] = 1
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards", "a.jpg"), tampered, 0o644))
	errs := Verify(r, dir)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "hash mismatch")

	// Size drift and a missing thumbnail.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards", "a.jpg"), make([]byte, 10), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "cards", "a.thumb.jpg")))
	r.Items[1].Error = ""
	r.Stats.Succeeded = 5

	errs = Verify(r, dir)
	assert.Len(t, errs, 4)
	assert.Contains(t, errs[0], "size mismatch")
	assert.Contains(t, errs[1], "file not found")
	assert.Contains(t, errs[2], "no error message")
	assert.Contains(t, errs[3], "stats.succeeded mismatch")
}
