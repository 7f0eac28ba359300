package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/e-illusion/ICPT-S/internal/pipeline"
	"github.com/e-illusion/ICPT-S/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	watchOutDir   string
	watchDebounce time.Duration
	watchFlags    presetFlags
)

var watchCmd = &cobra.Command{
	Use:   "watch <input_dir>",
	Short: "Compress images as they are written into a directory",
	Long: `Watches input_dir (recursively) and compresses every image that is
created or rewritten into the mirrored path under --out, once the file has
been quiet for --debounce. Stops on Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutDir, "out", "o", "./imgproc_out", "output directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a file is processed")
	watchFlags.register(watchCmd, true)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(watchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := watchFlags.resolve(cmd)
	if err != nil {
		return err
	}

	pl := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Preset:    p,
		Codec:     codec,
		NoOrient:  noOrient,
		Logger:    &logger,
	})

	w, err := watcher.New(absInput, pl, watcher.Options{
		Debounce: watchDebounce,
		Skip:     absOutput,
		Match:    pipeline.IsImage,
		Logger:   &logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		// Drain; the watcher logs each result itself.
		for range w.Results() {
		}
	}()

	logger.Info().Str("dir", absInput).Str("out", absOutput).Str("preset", p.Name).Msg("watching")
	if err := w.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("stopped")
	return nil
}
