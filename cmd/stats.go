package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/e-illusion/ICPT-S/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a batch report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	r, err := report.Read(args[0])
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), r)
	return nil
}

func printStats(w io.Writer, r *report.Report) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Report version:   %d\n", r.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", r.GeneratedAt)
	fmt.Fprintf(w, "  Preset:           %s\n", r.Preset)
	if r.RunInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", r.RunInfo.Workers)
		fmt.Fprintf(w, "  Codec:            %s\n", r.RunInfo.Codec)
		fmt.Fprintf(w, "  Quality:          %d\n", r.RunInfo.Quality)
	}
	fmt.Fprintln(w)

	s := r.Stats
	fmt.Fprintf(w, "  Images:           %d (%d ok, %d failed)\n", s.TotalItems, s.Succeeded, s.Failed)
	fmt.Fprintf(w, "  Thumbnails:       %d\n", s.Thumbnails)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Fprintf(w, "  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Fprintln(w)

	// Failures by code.
	codes := map[string]int{}
	for _, it := range r.Items {
		if !it.OK() {
			codes[it.Status]++
		}
	}
	if len(codes) > 0 {
		var names []string
		for c := range codes {
			names = append(names, c)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "  Failures:")
		for _, c := range names {
			fmt.Fprintf(w, "    %-26s %4d\n", c, codes[c])
		}
		fmt.Fprintln(w)
	}

	// Source formats.
	formats := map[string]int{}
	for _, it := range r.Items {
		if it.Format != "" {
			formats[it.Format]++
		}
	}
	if len(formats) > 0 {
		var names []string
		for f := range formats {
			names = append(names, f)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "  Source formats:")
		for _, f := range names {
			fmt.Fprintf(w, "    %-8s %4d images\n", f, formats[f])
		}
		fmt.Fprintln(w)
	}

	// Output width breakdown.
	widthStats := map[int]int{}
	for _, it := range r.Items {
		if it.Output != nil {
			widthStats[it.Output.Width]++
		}
	}
	var widths []int
	for wd := range widthStats {
		widths = append(widths, wd)
	}
	sort.Ints(widths)
	if len(widths) > 0 {
		fmt.Fprintln(w, "  Width breakdown:")
		for _, wd := range widths {
			fmt.Fprintf(w, "    %5dpx  %4d images\n", wd, widthStats[wd])
		}
		fmt.Fprintln(w)
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
