package imageproc

import (
	"fmt"
	"image"
	"os"
	"runtime"
	"time"

	"github.com/e-illusion/ICPT-S/internal/decoder"
	"github.com/e-illusion/ICPT-S/internal/encoder"
	"github.com/e-illusion/ICPT-S/internal/scaler"
	"github.com/e-illusion/ICPT-S/internal/sharpen"
	"github.com/rs/zerolog"
)

const (
	opCompress  = "compress"
	opThumbnail = "thumbnail"
	opMemory    = "compress_memory"
	opInfo      = "info"
)

// Processor runs the decode, scale, sharpen and encode pipelines. It is
// immutable after New and safe for concurrent use on independent inputs.
type Processor struct {
	registry   *encoder.Registry
	enc        encoder.Encoder
	decodeOpts decoder.Options
	log        zerolog.Logger
	metrics    *Metrics
	workers    int
	maxOutput  int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Processor) { p.log = l }
}

// WithMetrics reports every operation to m.
func WithMetrics(m *Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithCodec selects a JPEG backend by name ("libjpeg", "image/jpeg").
// Backends not compiled into the binary leave the default in place.
func WithCodec(name string) Option {
	return func(p *Processor) {
		if enc := p.registry.Get(name); enc != nil {
			p.enc = enc
			return
		}
		p.log.Warn().Str("codec", name).Str("using", p.enc.Name()).Msg("codec not available")
	}
}

// WithWorkers sets BatchCompress parallelism. n <= 0 means runtime.NumCPU().
// The default of 1 processes items one after another.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		p.workers = n
	}
}

// WithMaxOutputBytes caps the buffer CompressFromMemory may allocate.
// Larger results fail with MemoryAllocation. 0 means no cap.
func WithMaxOutputBytes(n int) Option {
	return func(p *Processor) { p.maxOutput = n }
}

// WithAutoOrient controls whether EXIF orientation is applied on decode.
func WithAutoOrient(enabled bool) Option {
	return func(p *Processor) { p.decodeOpts.AutoOrient = enabled }
}

// New creates a configured processor.
func New(opts ...Option) *Processor {
	reg := encoder.NewRegistry()
	p := &Processor{
		registry:   reg,
		enc:        reg.Default(),
		decodeOpts: decoder.DefaultOptions(),
		log:        zerolog.Nop(),
		workers:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result describes one successful compress or thumbnail.
type Result struct {
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
	Bytes        int
}

// Compress recompresses inPath into a JPEG at outPath.
func (p *Processor) Compress(inPath, outPath string, cfg *CompressConfig) error {
	_, err := p.CompressFile(inPath, outPath, cfg)
	return err
}

// CompressFile is Compress that also reports what was produced.
func (p *Processor) CompressFile(inPath, outPath string, cfg *CompressConfig) (res Result, err error) {
	start := time.Now()
	defer func() { p.metrics.observe(opCompress, start, res.Bytes, err) }()

	if inPath == "" || outPath == "" {
		return Result{}, invalidParams(opCompress, inPath, "empty path")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, &Error{Code: InvalidParams, Op: opCompress, Path: inPath, Err: err}
	}

	img, err := guard("decode", func() (image.Image, error) {
		return decoder.Open(inPath, p.decodeOpts)
	})
	if err != nil {
		return Result{}, p.fail(opCompress, inPath, err)
	}

	data, res, err := p.recompress(img, cfg)
	if err != nil {
		return Result{}, p.fail(opCompress, inPath, err)
	}

	if err := p.write(outPath, data); err != nil {
		return Result{}, p.fail(opCompress, inPath, err)
	}

	p.log.Debug().
		Str("op", opCompress).
		Str("src", inPath).
		Str("dst", outPath).
		Str("size", fmt.Sprintf("%dx%d->%dx%d", res.SourceWidth, res.SourceHeight, res.Width, res.Height)).
		Int32("quality", cfg.Quality).
		Int("bytes", res.Bytes).
		Dur("took", time.Since(start)).
		Msg("compressed")
	return res, nil
}

// Thumbnail writes a sharpened JPEG of exactly width pixels across, at
// quality 95. Unlike Compress it upscales sources narrower than width.
func (p *Processor) Thumbnail(inPath, outPath string, width int) error {
	_, err := p.ThumbnailFile(inPath, outPath, width)
	return err
}

// ThumbnailFile is Thumbnail that also reports what was produced.
func (p *Processor) ThumbnailFile(inPath, outPath string, width int) (res Result, err error) {
	start := time.Now()
	defer func() { p.metrics.observe(opThumbnail, start, res.Bytes, err) }()

	if inPath == "" || outPath == "" {
		return Result{}, invalidParams(opThumbnail, inPath, "empty path")
	}
	if width <= 0 {
		return Result{}, invalidParams(opThumbnail, inPath, "thumbnail width %d must be positive", width)
	}

	img, err := guard("decode", func() (image.Image, error) {
		return decoder.Open(inPath, p.decodeOpts)
	})
	if err != nil {
		return Result{}, p.fail(opThumbnail, inPath, err)
	}

	b := img.Bounds()
	res.SourceWidth, res.SourceHeight = b.Dx(), b.Dy()
	res.Width, res.Height = scaler.ToWidth(b.Dx(), b.Dy(), width)
	if err := encoder.CheckGeometry(res.Width, res.Height); err != nil {
		return Result{}, p.fail(opThumbnail, inPath, err)
	}

	thumb, err := guard("resize", func() (image.Image, error) {
		return scaler.Resample(img, res.Width, res.Height), nil
	})
	if err != nil {
		return Result{}, p.fail(opThumbnail, inPath, err)
	}
	thumb, err = guard("sharpen", func() (image.Image, error) {
		return sharpen.Apply(thumb), nil
	})
	if err != nil {
		return Result{}, p.fail(opThumbnail, inPath, err)
	}

	data, err := p.encode(thumb, ThumbnailQuality)
	if err != nil {
		return Result{}, p.fail(opThumbnail, inPath, err)
	}
	res.Bytes = len(data)

	if err := p.write(outPath, data); err != nil {
		return Result{}, p.fail(opThumbnail, inPath, err)
	}

	p.log.Debug().
		Str("op", opThumbnail).
		Str("src", inPath).
		Str("dst", outPath).
		Str("size", fmt.Sprintf("%dx%d->%dx%d", res.SourceWidth, res.SourceHeight, res.Width, res.Height)).
		Int("bytes", res.Bytes).
		Dur("took", time.Since(start)).
		Msg("thumbnail written")
	return res, nil
}

// CompressFromMemory recompresses an encoded image held in memory. No file
// is read or written. The returned buffer belongs to the caller, who must
// Release or Detach it.
func (p *Processor) CompressFromMemory(data []byte, cfg *CompressConfig) (buf *OwnedBuffer, err error) {
	start := time.Now()
	defer func() { p.metrics.observe(opMemory, start, buf.Len(), err) }()

	if len(data) == 0 {
		return nil, invalidParams(opMemory, "", "empty input")
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Code: InvalidParams, Op: opMemory, Err: err}
	}

	img, err := guard("decode", func() (image.Image, error) {
		return decoder.FromBytes(data, p.decodeOpts)
	})
	if err != nil {
		return nil, p.fail(opMemory, "", err)
	}

	encoded, res, err := p.recompress(img, cfg)
	if err != nil {
		return nil, p.fail(opMemory, "", err)
	}

	out, err := p.allocate(len(encoded))
	if err != nil {
		return nil, p.fail(opMemory, "", err)
	}
	copy(out, encoded)

	p.log.Debug().
		Str("op", opMemory).
		Int("in_bytes", len(data)).
		Str("size", fmt.Sprintf("%dx%d->%dx%d", res.SourceWidth, res.SourceHeight, res.Width, res.Height)).
		Int("bytes", len(out)).
		Dur("took", time.Since(start)).
		Msg("compressed in memory")
	return newOwnedBuffer(out), nil
}

// recompress applies the bounding-box policy and encodes at cfg.Quality.
func (p *Processor) recompress(img image.Image, cfg *CompressConfig) ([]byte, Result, error) {
	b := img.Bounds()
	res := Result{SourceWidth: b.Dx(), SourceHeight: b.Dy(), Width: b.Dx(), Height: b.Dy()}

	if cfg.EnableResize {
		w, h, resized := scaler.FitWithin(b.Dx(), b.Dy(), int(cfg.MaxWidth), int(cfg.MaxHeight))
		if resized {
			scaled, err := guard("resize", func() (image.Image, error) {
				return scaler.Resample(img, w, h), nil
			})
			if err != nil {
				return nil, Result{}, err
			}
			img = scaled
			res.Width, res.Height = w, h
		}
	}

	data, err := p.encode(img, int(cfg.Quality))
	if err != nil {
		return nil, Result{}, err
	}
	res.Bytes = len(data)
	return data, res, nil
}

func (p *Processor) encode(img image.Image, quality int) ([]byte, error) {
	return guard("encode", func() ([]byte, error) {
		return p.enc.Encode(img, encoder.Options{Quality: quality, Optimize: true})
	})
}

func (p *Processor) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &Error{Code: SaveFailed, Err: fmt.Errorf("write %s: %w", path, err)}
	}
	return nil
}

// allocate returns an exactly sized output buffer, or a MemoryAllocation
// error when the size exceeds the configured cap or the runtime refuses it.
func (p *Processor) allocate(n int) (buf []byte, err error) {
	if p.maxOutput > 0 && n > p.maxOutput {
		return nil, &Error{Code: MemoryAllocation,
			Err: fmt.Errorf("output of %d bytes exceeds limit of %d", n, p.maxOutput)}
	}
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, &Error{Code: MemoryAllocation, Err: fmt.Errorf("allocate %d bytes: %v", n, r)}
		}
	}()
	return make([]byte, n), nil
}

// fail classifies err, fills in op and path, and logs it.
func (p *Processor) fail(op, path string, err error) *Error {
	e := classify(op, path, err)
	if e.Op == "" {
		e.Op = op
	}
	if e.Path == "" {
		e.Path = path
	}
	p.log.Debug().Str("op", op).Str("src", path).Str("code", e.Code.String()).Err(e.Err).Msg("failed")
	return e
}

// guard runs one pipeline stage, turning a panic inside the codec or
// resampler into an ordinary error.
func guard[T any](stage string, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %w: %v", stage, errPanic, r)
		}
	}()
	return fn()
}
