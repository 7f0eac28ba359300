package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/e-illusion/ICPT-S/imageproc"
	"github.com/e-illusion/ICPT-S/internal/preset"
	"github.com/e-illusion/ICPT-S/internal/report"
	"github.com/rs/zerolog"
)

// Config holds all parameters for a batch run over a directory.
type Config struct {
	InputDir  string
	OutputDir string
	Preset    preset.Preset
	Workers   int
	Metrics   *imageproc.Metrics

	// Codec names the JPEG backend; empty selects the default.
	Codec string

	// NoOrient decodes pixels as stored, ignoring EXIF orientation.
	NoOrient bool

	// Logger receives progress and per-image events; nil discards them.
	Logger *zerolog.Logger
}

// Pipeline compresses every image under InputDir into a mirrored tree
// under OutputDir.
type Pipeline struct {
	cfg  Config
	proc *imageproc.Processor
	log  zerolog.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	opts := []imageproc.Option{
		imageproc.WithLogger(log),
		imageproc.WithMetrics(cfg.Metrics),
		imageproc.WithAutoOrient(!cfg.NoOrient),
	}
	if cfg.Codec != "" {
		opts = append(opts, imageproc.WithCodec(cfg.Codec))
	}
	return &Pipeline{
		cfg:  cfg,
		proc: imageproc.New(opts...),
		log:  log.With().Str("component", "pipeline").Logger(),
	}
}

// Processor returns the image processor the pipeline runs on.
func (p *Pipeline) Processor() *imageproc.Processor { return p.proc }

// Run scans the input directory and processes every image on a pool of
// Workers goroutines. Per-image failures are recorded in the report rather
// than returned; Run fails only when nothing could be processed. When ctx
// is cancelled, images not yet started are left out of the report and
// ctx.Err() is returned with it.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()
	if err := p.cfg.Preset.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	p.log.Debug().Str("codec", p.proc.CodecVersion()).Msg("encoder")

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.Info().Int("images", len(sources)).Str("preset", p.cfg.Preset.Name).Msg("found images")

	// Step 2: Process images in parallel.
	items := make([]report.Item, len(sources))
	done := make([]bool, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if ctx.Err() != nil {
				return
			}
			items[idx] = p.process(s)
			done[idx] = true
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into the report, in scan order.
	r := report.New(p.cfg.Preset.Name)
	r.InputDir = p.cfg.InputDir
	r.OutputDir = p.cfg.OutputDir
	cfg := p.cfg.Preset.Config
	r.RunInfo = &report.RunInfo{
		Workers:    p.cfg.Workers,
		Codec:      p.proc.CodecVersion(),
		Quality:    cfg.Quality,
		ThumbWidth: p.cfg.Preset.ThumbWidth,
	}
	if cfg.EnableResize {
		r.RunInfo.MaxWidth, r.RunInfo.MaxHeight = cfg.MaxWidth, cfg.MaxHeight
	}
	for i, it := range items {
		if done[i] {
			r.Items = append(r.Items, it)
		}
	}
	r.ComputeStats()

	p.log.Info().
		Int("succeeded", r.Stats.Succeeded).
		Int("failed", r.Stats.Failed).
		Int64("input_bytes", r.Stats.TotalInputBytes).
		Int64("output_bytes", r.Stats.TotalOutputBytes).
		Dur("took", time.Since(start)).
		Msg("batch complete")

	if err := ctx.Err(); err != nil {
		return r, err
	}
	// Report errors but don't fail the entire run for partial failures.
	if r.Stats.Succeeded == 0 {
		return r, fmt.Errorf("all %d images failed to process", len(sources))
	}
	if r.Stats.Failed > 0 {
		p.log.Warn().Msgf("%d of %d images had errors", r.Stats.Failed, len(sources))
	}
	return r, nil
}

// ProcessFile compresses a single file that lives under InputDir, as the
// watcher does for each new arrival.
func (p *Pipeline) ProcessFile(path string) (report.Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return report.Item{}, fmt.Errorf("stat %s: %w", path, err)
	}
	src, err := newSource(p.cfg.InputDir, path, info.Size())
	if err != nil {
		return report.Item{}, err
	}
	return p.process(src), nil
}

func (p *Pipeline) outPath(rel string) string {
	return filepath.Join(p.cfg.OutputDir, filepath.FromSlash(rel))
}
