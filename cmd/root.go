package cmd

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/e-illusion/ICPT-S/imageproc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version  = imageproc.LibraryVersion
	verbose  bool
	jsonLogs bool
	codec    string
	noOrient bool

	// logger is built from the global flags before any command runs.
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "imgproc",
	Short: "Recompress images for storage and generate sharpened thumbnails",
	Long: `imgproc shrinks images to fit a bounding box and re-encodes them as
optimised JPEG, writes sharpened fixed-width thumbnails, and reports image
dimensions without transforming anything.

Directories can be processed in one batch (with a JSON report) or watched
so new images are compressed as they arrive.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger = newLogger()
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgproc: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log JSON lines instead of console text")
	rootCmd.PersistentFlags().BoolVar(&noOrient, "no-orient", false, "ignore EXIF orientation tags when decoding")
	rootCmd.PersistentFlags().StringVar(&codec, "codec", "", `JPEG backend ("libjpeg", "image/jpeg"; empty = best available)`)
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgproc %s (%s/%s, %s, codec %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(), imageproc.CodecVersion(),
	))
}

// newLogger logs to stderr at info level, or debug with --verbose.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if jsonLogs {
		zerolog.TimeFieldFormat = time.RFC3339
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// newProcessor builds a processor honouring the global flags.
func newProcessor(opts ...imageproc.Option) *imageproc.Processor {
	base := []imageproc.Option{imageproc.WithLogger(logger), imageproc.WithAutoOrient(!noOrient)}
	if codec != "" {
		base = append(base, imageproc.WithCodec(codec))
	}
	return imageproc.New(append(base, opts...)...)
}
