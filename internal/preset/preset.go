package preset

import (
	"fmt"
	"os"
	"sort"

	"github.com/e-illusion/ICPT-S/imageproc"
	"gopkg.in/yaml.v3"
)

// Fallback is the preset used when none is named.
const Fallback = "default"

// Preset is a named compression setup for the batch and watch drivers.
type Preset struct {
	Name       string                   `yaml:"-"`
	Config     imageproc.CompressConfig `yaml:",inline"`
	ThumbWidth int                      `yaml:"thumb_width"` // 0 disables per-image thumbnails
}

// Built-in presets.
var builtins = map[string]Preset{
	"default": {
		Name:   "default",
		Config: imageproc.DefaultConfig(),
	},
	"high": {
		Name:   "high",
		Config: imageproc.HighQualityConfig(),
	},
	"thumbnail": {
		Name:       "thumbnail",
		Config:     imageproc.ThumbnailConfig(),
		ThumbWidth: 150,
	},
}

// Set is the built-in presets plus any loaded from a file.
type Set struct {
	presets map[string]Preset
}

// Builtins returns a Set holding only the built-in presets.
func Builtins() *Set {
	s := &Set{presets: make(map[string]Preset, len(builtins))}
	for name, p := range builtins {
		s.presets[name] = p
	}
	return s
}

// file is the on-disk layout:
//
//	presets:
//	  web:
//	    quality: 80
//	    max_width: 1600
//	    max_height: 1200
//	    enable_resize: true
//	    thumb_width: 320
type file struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Load reads a YAML preset file on top of the built-ins. A preset with a
// built-in name replaces it.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}

	s := Builtins()
	for name, p := range f.Presets {
		p.Name = name
		s.presets[name] = p
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset file: %w", err)
	}
	return s, nil
}

// Validate checks every preset in the set.
func (s *Set) Validate() error {
	for _, name := range s.Names() {
		if err := s.presets[name].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the compression settings and thumbnail width.
func (p Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	if p.ThumbWidth < 0 {
		return fmt.Errorf("preset %q: thumb_width %d must not be negative", p.Name, p.ThumbWidth)
	}
	return nil
}

// Lookup returns the named preset; an empty name selects Fallback.
// Unknown names are an error.
func (s *Set) Lookup(name string) (Preset, error) {
	if name == "" {
		name = Fallback
	}
	p, ok := s.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (have %v)", name, s.Names())
	}
	return p, nil
}

// Names returns the preset names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
