package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/e-illusion/ICPT-S/imageproc"
	"github.com/e-illusion/ICPT-S/internal/pipeline"
	"github.com/e-illusion/ICPT-S/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	batchOutDir      string
	batchWorkers     int
	batchReportPath  string
	batchMetricsFile string
	batchFlags       presetFlags
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Compress every image under a directory and write a report",
	Long: `Scans input_dir for images (png, jpg, jpeg, webp, gif, bmp, tiff),
compresses each into the same relative path under --out with a .jpg
extension, optionally writes a sharpened <name>.thumb.jpg next to it, and
records every outcome in imgproc.report.json.

A failing image does not stop the batch; the command fails only when no
image could be processed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./imgproc_out", "output directory")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().StringVar(&batchReportPath, "report", "", "report path (default <out>/"+report.FileName+")")
	batchCmd.Flags().StringVar(&batchMetricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	batchFlags.register(batchCmd, true)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	p, err := batchFlags.resolve(cmd)
	if err != nil {
		return err
	}

	logger.Debug().Str("input", absInput).Str("output", absOutput).Msg("batch")

	reg := prometheus.NewRegistry()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pl := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Preset:    p,
		Workers:   batchWorkers,
		Codec:     codec,
		NoOrient:  noOrient,
		Logger:    &logger,
		Metrics:   imageproc.NewMetrics(reg),
	})

	r, runErr := pl.Run(ctx)
	if r == nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}

	// The report is written even for a partial or cancelled run.
	reportPath := batchReportPath
	if reportPath == "" {
		reportPath = filepath.Join(absOutput, report.FileName)
	}
	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if batchMetricsFile != "" {
		if err := prometheus.WriteToTextfile(batchMetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	printBatchReport(cmd.OutOrStdout(), r, reportPath, time.Since(start))

	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("interrupted after %d images", len(r.Items))
	}
	return runErr
}

func printBatchReport(w io.Writer, r *report.Report, reportPath string, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║              imgproc batch complete              ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	stats := r.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Fprintf(w, "  Images:      %d\n", stats.TotalItems)
	fmt.Fprintf(w, "  Succeeded:   %d\n", stats.Succeeded)
	if stats.Failed > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", stats.Failed)
	}
	if stats.Thumbnails > 0 {
		fmt.Fprintf(w, "  Thumbnails:  %d\n", stats.Thumbnails)
	}
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Fprintf(w, "  Ratio:       %.1f%% of original\n", ratio)
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	if r.RunInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d  (%s)\n", r.RunInfo.Workers, r.RunInfo.Codec)
	}
	fmt.Fprintln(w)

	// Top 10 heaviest images.
	type itemSize struct {
		key        string
		inputSize  int64
		outputSize int64
	}
	var items []itemSize
	for _, it := range r.Items {
		if it.OK() && it.Output != nil {
			items = append(items, itemSize{it.Source, it.InputSize, it.Output.Size})
		}
	}
	if len(items) > 0 {
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Fprintf(w, "  Top %d heaviest (original → compressed):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.inputSize > 0 {
				saved = (1 - float64(it.outputSize)/float64(it.inputSize)) * 100
			}
			fmt.Fprintf(w, "    %-40s %8s → %8s  (%+.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				-saved,
			)
		}
		fmt.Fprintln(w)
	}

	// Failures.
	for _, it := range r.Items {
		if !it.OK() {
			fmt.Fprintf(w, "  ✗ %s: %s\n", it.Source, it.Error)
		}
	}

	fmt.Fprintf(w, "  Report:      %s\n", reportPath)
	fmt.Fprintln(w)
}
