// Package imageproc recompresses images for storage and generates
// sharpened thumbnails.
//
// Every operation decodes its source, optionally rescales it, and encodes a
// JPEG with explicit quality and Huffman optimisation:
//
//   - Compress shrinks to fit CompressConfig's bounding box (never enlarging)
//     and encodes at the configured quality.
//   - Thumbnail resamples to an exact width (enlarging if needed), sharpens
//     with a fixed 3×3 kernel and encodes at quality 95.
//   - CompressFromMemory is Compress without file I/O; the result is an
//     OwnedBuffer the caller must Release or Detach.
//
// Failures are *Error values carrying an ErrorCode; CodeOf recovers the code
// from any returned error.
//
// The package-level functions use a default Processor. Build with
// -tags libjpeg to encode through libjpeg with optimised Huffman tables.
package imageproc

// LibraryVersion is the semantic version of this package.
const LibraryVersion = "1.0.0"

var defaultProcessor = New()

// Default returns the processor behind the package-level functions.
func Default() *Processor { return defaultProcessor }

// Compress recompresses inPath into outPath with the default processor.
func Compress(inPath, outPath string, cfg *CompressConfig) error {
	return defaultProcessor.Compress(inPath, outPath, cfg)
}

// Thumbnail writes a sharpened thumbnail with the default processor.
func Thumbnail(inPath, outPath string, width int) error {
	return defaultProcessor.Thumbnail(inPath, outPath, width)
}

// Info inspects path with the default processor.
func Info(path string) (ImageInfo, error) {
	return defaultProcessor.Info(path)
}

// BatchCompress runs a batch with the default processor.
func BatchCompress(inPaths, outPaths []string, count int, cfg *CompressConfig) BatchResult {
	return defaultProcessor.BatchCompress(inPaths, outPaths, count, cfg)
}

// BatchCompressCount runs a batch and returns only the success count.
func BatchCompressCount(inPaths, outPaths []string, count int, cfg *CompressConfig) int {
	return defaultProcessor.BatchCompressCount(inPaths, outPaths, count, cfg)
}

// CompressFromMemory recompresses data with the default processor.
func CompressFromMemory(data []byte, cfg *CompressConfig) (*OwnedBuffer, error) {
	return defaultProcessor.CompressFromMemory(data, cfg)
}

// CompressWithQuality compresses with DefaultConfig at the given quality.
func CompressWithQuality(inPath, outPath string, quality int) error {
	cfg := DefaultConfig()
	cfg.Quality = int32(quality)
	return defaultProcessor.Compress(inPath, outPath, &cfg)
}

// ThumbnailWithConfig produces a bounded preview through the compress
// pipeline: no sharpening, no upscaling, cfg's quality.
func ThumbnailWithConfig(inPath, outPath string, cfg *CompressConfig) error {
	return defaultProcessor.Compress(inPath, outPath, cfg)
}

// Version describes this library.
func Version() string {
	return "ICPT image processor v" + LibraryVersion
}

// CodecVersion describes the JPEG backend of the default processor.
func CodecVersion() string {
	return defaultProcessor.CodecVersion()
}

// CodecVersion describes the JPEG backend this processor encodes with.
func (p *Processor) CodecVersion() string {
	return p.enc.Version()
}

// ProcessorStats summarises the build for health endpoints.
type ProcessorStats struct {
	Version      string   `json:"version"`
	CodecVersion string   `json:"codec_version"`
	Codecs       []string `json:"codecs"`
	Optimizing   bool     `json:"optimizing"`
	Available    bool     `json:"available"`
}

// Stats reports the default processor's build.
func Stats() ProcessorStats {
	return defaultProcessor.Stats()
}

// Stats reports this processor's build.
func (p *Processor) Stats() ProcessorStats {
	return ProcessorStats{
		Version:      Version(),
		CodecVersion: p.enc.Version(),
		Codecs:       p.registry.Available(),
		Optimizing:   p.enc.Optimizes(),
		Available:    p.Available(),
	}
}

// Available reports whether an encoder backend is usable.
func Available() bool {
	return defaultProcessor.Available()
}

// Available reports whether an encoder backend is usable.
func (p *Processor) Available() bool {
	return p.enc != nil
}
