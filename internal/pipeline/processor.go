package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/e-illusion/ICPT-S/imageproc"
	"github.com/e-illusion/ICPT-S/internal/hasher"
	"github.com/e-illusion/ICPT-S/internal/report"
)

// process handles a single source image: compress, optional thumbnail,
// digest of every file written.
func (p *Pipeline) process(src Source) report.Item {
	item := report.Item{Source: src.RelPath, Format: src.Format, InputSize: src.Size}
	log := p.log.With().Str("src", src.RelPath).Logger()

	outPath := p.outPath(src.OutRel)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return failed(item, &imageproc.Error{Code: imageproc.SaveFailed, Op: "compress", Path: src.AbsPath, Err: err})
	}

	cfg := p.cfg.Preset.Config
	res, err := p.proc.CompressFile(src.AbsPath, outPath, &cfg)
	if err != nil {
		log.Warn().Err(err).Msg("compress failed")
		return failed(item, err)
	}
	item.Original = &report.Dims{Width: res.SourceWidth, Height: res.SourceHeight}
	item.Output, err = describe(src.OutRel, outPath, res)
	if err != nil {
		return failed(item, err)
	}

	if w := p.cfg.Preset.ThumbWidth; w > 0 {
		thumbPath := p.outPath(src.ThumbRel())
		tres, err := p.proc.ThumbnailFile(src.AbsPath, thumbPath, w)
		if err != nil {
			log.Warn().Err(err).Msg("thumbnail failed")
			return failed(item, err)
		}
		item.Thumbnail, err = describe(src.ThumbRel(), thumbPath, tres)
		if err != nil {
			return failed(item, err)
		}
	}

	item.Status = imageproc.Success.String()
	log.Debug().
		Int64("in", item.InputSize).
		Int64("out", item.Output.Size).
		Str("hash", item.Output.Hash).
		Msg("done")
	return item
}

// describe hashes a written file for the report.
func describe(rel, path string, res imageproc.Result) (*report.Output, error) {
	digest, size, err := hasher.FileDigest(path)
	if err != nil {
		return nil, &imageproc.Error{Code: imageproc.SaveFailed, Path: path, Err: fmt.Errorf("hash output: %w", err)}
	}
	return &report.Output{
		Path:   rel,
		Width:  res.Width,
		Height: res.Height,
		Size:   size,
		Hash:   digest,
	}, nil
}

func failed(item report.Item, err error) report.Item {
	code := imageproc.CodeOf(err)
	item.Code = int32(code)
	item.Status = code.String()
	item.Error = err.Error()
	item.Output = nil
	item.Thumbnail = nil
	return item
}
