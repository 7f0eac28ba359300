package imageproc

import "fmt"

// CompressConfig mirrors the C CompressConfig layout.
type CompressConfig struct {
	Quality      int32 `json:"quality" yaml:"quality"`             // JPEG quality, 1-100
	MaxWidth     int32 `json:"max_width" yaml:"max_width"`         // bounding box width
	MaxHeight    int32 `json:"max_height" yaml:"max_height"`       // bounding box height
	EnableResize bool  `json:"enable_resize" yaml:"enable_resize"` // MaxWidth/MaxHeight ignored when false
}

// ThumbnailQuality is the fixed JPEG quality of thumbnails.
const ThumbnailQuality = 95

// DefaultConfig is the general-purpose storage preset.
func DefaultConfig() CompressConfig {
	return CompressConfig{
		Quality:      85,
		MaxWidth:     1920,
		MaxHeight:    1080,
		EnableResize: true,
	}
}

// HighQualityConfig keeps more detail at a larger size.
func HighQualityConfig() CompressConfig {
	return CompressConfig{
		Quality:      95,
		MaxWidth:     2560,
		MaxHeight:    1440,
		EnableResize: true,
	}
}

// ThumbnailConfig is a small, bounded preview preset for ThumbnailWithConfig.
func ThumbnailConfig() CompressConfig {
	return CompressConfig{
		Quality:      75,
		MaxWidth:     400,
		MaxHeight:    300,
		EnableResize: true,
	}
}

// Validate reports the first invalid field. A nil config is invalid.
func (c *CompressConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality %d outside 1-100", c.Quality)
	}
	if c.EnableResize && (c.MaxWidth <= 0 || c.MaxHeight <= 0) {
		return fmt.Errorf("resize bounds must be positive, got %dx%d", c.MaxWidth, c.MaxHeight)
	}
	return nil
}

// ValidateConfig is Validate wrapped in an InvalidParams *Error.
func ValidateConfig(cfg *CompressConfig) error {
	if err := cfg.Validate(); err != nil {
		return &Error{Code: InvalidParams, Op: "validate", Err: err}
	}
	return nil
}
