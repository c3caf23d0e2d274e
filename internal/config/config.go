// Package config holds the settings that shape merged output. A Config is
// built once per run ([DefaultConfig], optionally overlaid by [Load] and CLI
// flags), checked with [Config.Validate] and then passed by value to the
// layout engine, the track cursors and the merger. Nothing in the module
// mutates a Config after construction.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLinesPerSubtitle = 2
	DefaultLineSeparator    = " / "

	// IdeographicSpace is wide enough to keep a blank line visible in
	// players that collapse ordinary whitespace.
	IdeographicSpace = "\u3000"

	// ASCIIPlaceholder replaces IdeographicSpace when the output encoding
	// cannot represent it.
	ASCIIPlaceholder = "."
)

// Config holds the layout and merge settings.
type Config struct {
	// LinesPerSubtitle is the number of lines every track contributes to a
	// merged block. Default: 2.
	LinesPerSubtitle int `yaml:"lines_per_subtitle"`

	// MergeExpandLines joins adjacent lines of a caption that has more than
	// LinesPerSubtitle lines. Default: true.
	MergeExpandLines bool `yaml:"merge_expand_lines"`

	// BlankPlaceholder fills lines of tracks with nothing to show.
	// Default: U+3000.
	BlankPlaceholder string `yaml:"blank_placeholder"`

	// LineSeparator joins two lines merged into one. Default: " / ".
	LineSeparator string `yaml:"line_separator"`
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		LinesPerSubtitle: DefaultLinesPerSubtitle,
		MergeExpandLines: true,
		BlankPlaceholder: IdeographicSpace,
		LineSeparator:    DefaultLineSeparator,
	}
}

// Load reads a YAML file on top of DefaultConfig. Keys missing from the
// file keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if c.LinesPerSubtitle < 1 {
		errs = append(errs, fmt.Errorf(
			"lines per subtitle must be at least 1, got %d",
			c.LinesPerSubtitle,
		))
	}
	if c.BlankPlaceholder == "" {
		errs = append(errs, errors.New("blank placeholder must not be empty"))
	}

	return errors.Join(errs...)
}
