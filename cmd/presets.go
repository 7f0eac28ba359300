package cmd

import (
	"fmt"

	"github.com/e-illusion/ICPT-S/internal/preset"
	"github.com/spf13/cobra"
)

// presetFlags are the compression settings shared by compress, batch and watch.
type presetFlags struct {
	name       string
	file       string
	quality    int
	maxWidth   int
	maxHeight  int
	noResize   bool
	thumbWidth int
}

func (f *presetFlags) register(cmd *cobra.Command, withThumb bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.name, "preset", "p", preset.Fallback, "compression preset")
	fs.StringVar(&f.file, "config", "", "YAML file with extra presets")
	fs.IntVarP(&f.quality, "quality", "q", 0, "JPEG quality 1-100 (overrides preset)")
	fs.IntVar(&f.maxWidth, "max-width", 0, "bounding box width (overrides preset)")
	fs.IntVar(&f.maxHeight, "max-height", 0, "bounding box height (overrides preset)")
	fs.BoolVar(&f.noResize, "no-resize", false, "keep source dimensions")
	if withThumb {
		fs.IntVar(&f.thumbWidth, "thumb-width", 0, "also write a thumbnail this wide (overrides preset, 0 = preset)")
	}
}

func loadPresets(file string) (*preset.Set, error) {
	if file == "" {
		return preset.Builtins(), nil
	}
	return preset.Load(file)
}

// resolve picks the named preset and applies flags the user set explicitly.
func (f *presetFlags) resolve(cmd *cobra.Command) (preset.Preset, error) {
	set, err := loadPresets(f.file)
	if err != nil {
		return preset.Preset{}, err
	}
	p, err := set.Lookup(f.name)
	if err != nil {
		return preset.Preset{}, err
	}

	fs := cmd.Flags()
	if fs.Changed("quality") {
		p.Config.Quality = int32(f.quality)
	}
	if fs.Changed("max-width") {
		p.Config.MaxWidth = int32(f.maxWidth)
		p.Config.EnableResize = true
	}
	if fs.Changed("max-height") {
		p.Config.MaxHeight = int32(f.maxHeight)
		p.Config.EnableResize = true
	}
	if f.noResize {
		p.Config.EnableResize = false
	}
	if fs.Changed("thumb-width") {
		p.ThumbWidth = f.thumbWidth
	}

	if err := p.Validate(); err != nil {
		return preset.Preset{}, err
	}
	logger.Debug().
		Str("preset", p.Name).
		Int32("quality", p.Config.Quality).
		Bool("resize", p.Config.EnableResize).
		Int32("max_width", p.Config.MaxWidth).
		Int32("max_height", p.Config.MaxHeight).
		Int("thumb_width", p.ThumbWidth).
		Msg("settings")
	return p, nil
}

var presetsFile string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available compression presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := loadPresets(presetsFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %-12s %7s %11s %7s %6s\n", "NAME", "QUALITY", "BOX", "RESIZE", "THUMB")
		for _, name := range set.Names() {
			p, _ := set.Lookup(name)
			box := fmt.Sprintf("%dx%d", p.Config.MaxWidth, p.Config.MaxHeight)
			fmt.Fprintf(out, "  %-12s %7d %11s %7t %6d\n", name, p.Config.Quality, box, p.Config.EnableResize, p.ThumbWidth)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().StringVar(&presetsFile, "config", "", "YAML file with extra presets")
	rootCmd.AddCommand(presetsCmd)
}
