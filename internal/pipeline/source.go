package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/mgpai22/mergesub/internal/charset"
	"github.com/mgpai22/mergesub/internal/config"
	"github.com/mgpai22/mergesub/internal/logging"
)

// TrackFile names an input file and, optionally, the encoding to read it
// with. An empty Encoding means auto-detect.
type TrackFile struct {
	Path     string
	Encoding string
}

// Load reads and decodes every file in order.
func Load(files []TrackFile, log *logging.Logger) ([]Source, error) {
	if log == nil {
		log = logging.Nop()
	}

	sources := make([]Source, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read track: %w", err)
		}

		text, used, err := charset.Decode(f.Path, data, f.Encoding)
		if err != nil {
			return nil, err
		}
		log.Debugw("Decoded track",
			"file", f.Path,
			"encoding", used,
			"forced", f.Encoding != "",
		)

		sources = append(sources, FromString(f.Path, text))
	}
	return sources, nil
}

// FromString wraps already decoded SRT text.
func FromString(name, text string) Source {
	return Source{Name: name, Reader: strings.NewReader(text)}
}

// ForOutput swaps the ideographic-space placeholder for an ASCII one when
// enc cannot represent it. Other placeholders are left alone.
func ForOutput(cfg config.Config, enc *charset.Encoding, log *logging.Logger) config.Config {
	if cfg.BlankPlaceholder != config.IdeographicSpace || charset.CanEncode(enc, cfg.BlankPlaceholder) {
		return cfg
	}
	if log != nil {
		log.Debugw("Output encoding lacks U+3000, using ASCII placeholder",
			"encoding", enc.Name,
			"placeholder", config.ASCIIPlaceholder,
		)
	}
	cfg.BlankPlaceholder = config.ASCIIPlaceholder
	return cfg
}
