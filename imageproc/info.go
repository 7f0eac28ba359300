package imageproc

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/e-illusion/ICPT-S/internal/decoder"
)

// MaxFormatLen is the longest format name kept, leaving room for the
// terminator of the 16-byte C field.
const MaxFormatLen = 15

// FormatName is a lowercase file-extension label of at most MaxFormatLen bytes.
type FormatName struct {
	name string
}

// UnknownFormat labels paths without an extension.
var UnknownFormat = FormatName{name: "unknown"}

// NewFormatName lowercases s and truncates it to MaxFormatLen bytes without
// splitting a UTF-8 sequence.
func NewFormatName(s string) FormatName {
	s = strings.ToLower(s)
	if len(s) > MaxFormatLen {
		cut := MaxFormatLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return FormatName{name: s}
}

// FormatFromPath returns the text after the last '.' in path, or
// UnknownFormat if there is none. The file content is not examined.
func FormatFromPath(path string) FormatName {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return UnknownFormat
	}
	return NewFormatName(path[i+1:])
}

func (f FormatName) String() string { return f.name }

func (f FormatName) MarshalText() ([]byte, error) { return []byte(f.name), nil }

func (f *FormatName) UnmarshalText(text []byte) error {
	*f = NewFormatName(string(text))
	return nil
}

// ImageInfo mirrors the C ImageInfo layout.
type ImageInfo struct {
	Width    int32      `json:"width"`
	Height   int32      `json:"height"`
	Channels int32      `json:"channels"`
	DataSize uint64     `json:"data_size"`
	Format   FormatName `json:"format"`
}

// Info reports the native dimensions and channel layout of the image at path.
func (p *Processor) Info(path string) (info ImageInfo, err error) {
	start := time.Now()
	defer func() { p.metrics.observe(opInfo, start, 0, err) }()

	if path == "" {
		return ImageInfo{}, invalidParams(opInfo, path, "empty path")
	}

	l, err := guard("inspect", func() (decoder.Layout, error) {
		return decoder.Inspect(path)
	})
	if err != nil {
		return ImageInfo{}, p.fail(opInfo, path, err)
	}

	return ImageInfo{
		Width:    int32(l.Width),
		Height:   int32(l.Height),
		Channels: int32(l.Channels),
		DataSize: l.DataSize(),
		Format:   FormatFromPath(path),
	}, nil
}
