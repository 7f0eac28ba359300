package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/e-illusion/ICPT-S/internal/report"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_report>",
	Short: "Validate a batch report and check the files it lists",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	r, err := report.Read(args[0])
	if err != nil {
		return err
	}

	baseDir := args[0]
	if info, err := os.Stat(baseDir); err == nil && !info.IsDir() {
		baseDir = filepath.Dir(baseDir)
	}

	out := cmd.OutOrStdout()
	errs := report.Verify(r, baseDir)
	if len(errs) == 0 {
		fmt.Fprintln(out, "  ✓ Report is valid")
		fmt.Fprintf(out, "  ✓ %d images, %d thumbnails, all files present\n", r.Stats.Succeeded, r.Stats.Thumbnails)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
