package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory, with forward slashes.
	RelPath string
	// OutRel is where the compressed copy goes, relative to the output directory.
	OutRel string
	// Format is the normalised source format (png, jpeg, webp, gif, bmp, tiff).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// ThumbRel is the thumbnail path relative to the output directory.
func (s Source) ThumbRel() string {
	return strings.TrimSuffix(s.OutRel, outputExt) + ".thumb" + outputExt
}

const outputExt = ".jpg"

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// IsImage reports whether path has a recognized image extension.
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanImages walks the input directory and returns all image sources.
// Directories listed in skip (typically the output directory when it sits
// inside the input) and hidden directories are not entered.
func ScanImages(inputDir string, skip ...string) ([]Source, error) {
	var sources []Source
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." && path != inputDir {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && skipped[abs] && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImage(path) {
			return nil
		}

		src, err := newSource(inputDir, path, info.Size())
		if err != nil {
			return err
		}
		sources = append(sources, src)
		return nil
	})
	if err != nil {
		return nil, err
	}

	dedupeOutputs(sources)
	return sources, nil
}

func newSource(inputDir, path string, size int64) (Source, error) {
	relPath, err := filepath.Rel(inputDir, path)
	if err != nil {
		return Source{}, err
	}
	relPath = filepath.ToSlash(relPath)
	ext := filepath.Ext(relPath)

	// Normalize format name.
	format := strings.ToLower(strings.TrimPrefix(ext, "."))
	if format == "jpg" {
		format = "jpeg"
	}
	if format == "tif" {
		format = "tiff"
	}

	return Source{
		AbsPath: path,
		RelPath: relPath,
		OutRel:  strings.TrimSuffix(relPath, ext) + outputExt,
		Format:  format,
		Size:    size,
	}, nil
}

// dedupeOutputs keeps the source extension in OutRel for sources that
// would otherwise collide ("a.png" and "a.jpg" both mapping to "a.jpg").
// Thumbnail paths take part too, so "a.thumb.jpg" and the thumbnail of
// "a.jpg" do not overwrite each other.
func dedupeOutputs(sources []Source) {
	renamed := make([]bool, len(sources))
	for {
		count := make(map[string]int, 2*len(sources))
		for _, s := range sources {
			count[s.OutRel]++
			count[s.ThumbRel()]++
		}

		changed := false
		for i, s := range sources {
			if renamed[i] || (count[s.OutRel] < 2 && count[s.ThumbRel()] < 2) {
				continue
			}
			sources[i].OutRel = s.RelPath + outputExt
			renamed[i] = true
			changed = true
		}
		if !changed {
			return
		}
	}
}
