package cmd

import (
	"encoding/json"

	"github.com/e-illusion/ICPT-S/imageproc"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <image>...",
	Short: "Print dimensions, channels and format of images as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type entry struct {
			Path string `json:"path"`
			imageproc.ImageInfo
			Error string `json:"error,omitempty"`
		}

		proc := newProcessor()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		var firstErr error
		for _, path := range args {
			info, err := proc.Info(path)
			e := entry{Path: path, ImageInfo: info}
			if err != nil {
				e.Error = err.Error()
				if firstErr == nil {
					firstErr = err
				}
			}
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return firstErr
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
