package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var thumbWidth int

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <input> <output>",
	Short: "Write a sharpened JPEG thumbnail of an exact width",
	Long: `Resamples input to --width pixels across (height follows the aspect
ratio, small sources are enlarged), applies a 3x3 sharpening kernel and
writes a quality 95 JPEG.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newProcessor().ThumbnailFile(args[0], args[1], thumbWidth)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d -> %dx%d, %s\n",
			args[1], res.SourceWidth, res.SourceHeight, res.Width, res.Height, formatBytes(int64(res.Bytes)))
		return nil
	},
}

func init() {
	thumbnailCmd.Flags().IntVarP(&thumbWidth, "width", "w", 150, "thumbnail width in pixels")
	rootCmd.AddCommand(thumbnailCmd)
}
