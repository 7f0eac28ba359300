package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compressFlags presetFlags

var compressCmd = &cobra.Command{
	Use:   "compress <input> <output>",
	Short: "Recompress one image as JPEG, shrinking it to the preset's bounding box",
	Long: `Decodes input, scales it down to fit the bounding box when it is larger
(never enlarging, aspect ratio preserved, Lanczos resampling) and writes an
optimised JPEG to output.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompress,
}

func init() {
	compressFlags.register(compressCmd, false)
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	p, err := compressFlags.resolve(cmd)
	if err != nil {
		return err
	}

	res, err := newProcessor().CompressFile(args[0], args[1], &p.Config)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d -> %dx%d, %s\n",
		args[1], res.SourceWidth, res.SourceHeight, res.Width, res.Height, formatBytes(int64(res.Bytes)))
	return nil
}
