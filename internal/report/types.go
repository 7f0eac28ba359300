package report

// Report is the top-level output of a batch run.
type Report struct {
	Version     int      `json:"version"`
	GeneratedAt string   `json:"generated_at"`
	Preset      string   `json:"preset"`
	InputDir    string   `json:"input_dir"`
	OutputDir   string   `json:"output_dir"`
	RunInfo     *RunInfo `json:"run_info,omitempty"`
	Items       []Item   `json:"items"`
	Stats       Stats    `json:"stats"`
}

// RunInfo captures run parameters for diagnostics.
type RunInfo struct {
	Workers    int    `json:"workers"`
	Codec      string `json:"codec"`
	Quality    int32  `json:"quality"`
	MaxWidth   int32  `json:"max_width,omitempty"`
	MaxHeight  int32  `json:"max_height,omitempty"`
	ThumbWidth int    `json:"thumb_width,omitempty"`
}

// Item is the outcome of one source image.
type Item struct {
	Source    string  `json:"source"` // relative to input_dir
	Format    string  `json:"format,omitempty"`
	Code      int32   `json:"code"` // imageproc.ErrorCode, 0 on success
	Status    string  `json:"status"`
	Error     string  `json:"error,omitempty"`
	InputSize int64   `json:"input_size"`
	Original  *Dims   `json:"original,omitempty"`
	Output    *Output `json:"output,omitempty"`
	Thumbnail *Output `json:"thumbnail,omitempty"`
}

// Dims is a pixel size.
type Dims struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Output is one file written for an item.
type Output struct {
	Path   string `json:"path"` // relative to output_dir
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
}

// OK reports whether the item was compressed.
func (it Item) OK() bool { return it.Code == 0 }

// Stats aggregates a run.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalItems       int   `json:"total_items"`
	Succeeded        int   `json:"succeeded"`
	Failed           int   `json:"failed"`
	Thumbnails       int   `json:"thumbnails"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1
