package report

import (
	"fmt"
	"path/filepath"

	"github.com/e-illusion/ICPT-S/internal/hasher"
)

// Verify checks a report against the files under baseDir and returns one
// message per problem found.
func Verify(r *Report, baseDir string) []string {
	var errs []string

	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	seen := map[string]bool{}
	check := func(src, kind string, o *Output) {
		if o.Width <= 0 || o.Height <= 0 {
			errs = append(errs, fmt.Sprintf("item %q %s: invalid dimensions %dx%d", src, kind, o.Width, o.Height))
		}
		if o.Hash == "" {
			errs = append(errs, fmt.Sprintf("item %q %s: missing hash", src, kind))
		}
		if o.Path == "" {
			errs = append(errs, fmt.Sprintf("item %q %s: missing path", src, kind))
			return
		}
		if seen[o.Path] {
			errs = append(errs, fmt.Sprintf("item %q %s: duplicate path %q", src, kind, o.Path))
		}
		seen[o.Path] = true

		digest, size, err := hasher.FileDigest(filepath.Join(baseDir, filepath.FromSlash(o.Path)))
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("item %q %s: file not found: %s", src, kind, o.Path))
		case size != o.Size:
			errs = append(errs, fmt.Sprintf("item %q %s: size mismatch: report=%d, disk=%d", src, kind, o.Size, size))
		case o.Hash != "" && digest != o.Hash:
			errs = append(errs, fmt.Sprintf("item %q %s: hash mismatch: report=%s, disk=%s", src, kind, o.Hash, digest))
		}
	}

	succeeded := 0
	for _, it := range r.Items {
		if !it.OK() {
			if it.Error == "" {
				errs = append(errs, fmt.Sprintf("item %q: failed with code %d but no error message", it.Source, it.Code))
			}
			continue
		}
		succeeded++
		if it.Output == nil {
			errs = append(errs, fmt.Sprintf("item %q: succeeded without output", it.Source))
			continue
		}
		check(it.Source, "output", it.Output)
		if it.Thumbnail != nil {
			check(it.Source, "thumbnail", it.Thumbnail)
		}
	}

	if r.Stats.TotalItems != len(r.Items) {
		errs = append(errs, fmt.Sprintf("stats.total_items mismatch: %d != %d", r.Stats.TotalItems, len(r.Items)))
	}
	if r.Stats.Succeeded != succeeded {
		errs = append(errs, fmt.Sprintf("stats.succeeded mismatch: %d != %d", r.Stats.Succeeded, succeeded))
	}
	return errs
}
