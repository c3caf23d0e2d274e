// Package pipeline wires one merge run: decoded sources become track
// cursors, the merger feeds the compatibility filter and the filter writes
// SRT into a buffer that reaches the caller only if the whole run succeeds.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mgpai22/mergesub/internal/compat"
	"github.com/mgpai22/mergesub/internal/config"
	"github.com/mgpai22/mergesub/internal/layout"
	"github.com/mgpai22/mergesub/internal/logging"
	"github.com/mgpai22/mergesub/internal/merge"
	"github.com/mgpai22/mergesub/internal/subtitle"
	"github.com/mgpai22/mergesub/internal/track"
)

var ErrNoTracks = errors.New("no tracks to merge")

// Source is one decoded track. Name is used in log lines and errors.
type Source struct {
	Name   string
	Reader io.Reader
}

// Result summarizes a successful run.
type Result struct {
	Tracks   int
	Blocks   int
	Rejected int
	Warnings int
}

// Run merges sources in order and writes the SRT document to out. The
// first source is the bottom-aligned track. Nothing is written to out when
// an error is returned.
func Run(
	cfg config.Config,
	sources []Source,
	out io.Writer,
	log *logging.Logger,
) (Result, error) {
	if log == nil {
		log = logging.Nop()
	}
	if len(sources) == 0 {
		return Result{}, ErrNoTracks
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid config: %w", err)
	}

	engine := layout.New(cfg)

	cursors := make([]*track.Cursor, 0, len(sources))
	tracks := make([]merge.Track, 0, len(sources))
	for i, src := range sources {
		c, err := track.New(
			subtitle.NewReader(src.Name, src.Reader),
			track.Options{AlignBottom: i == 0, Engine: engine},
			log.Named("track"),
		)
		if err != nil {
			return Result{}, fmt.Errorf("failed to open track %s: %w", src.Name, err)
		}
		cursors = append(cursors, c)
		tracks = append(tracks, c)
	}

	var buf bytes.Buffer
	writer := subtitle.NewSRTWriter(&buf)
	filter := compat.New(writer, log.Named("compat"))
	merger := merge.New(tracks, engine, filter, log.Named("merge"))

	if err := merger.Run(); err != nil {
		return Result{}, err
	}

	res := Result{
		Tracks:   len(sources),
		Blocks:   writer.Blocks(),
		Rejected: merger.Stats().Rejected,
	}
	for _, c := range cursors {
		res.Warnings += c.Warnings()
		log.Debugw("Track merged",
			"file", c.Name(),
			"intervals", c.Decoded(),
			"warnings", c.Warnings(),
		)
	}

	if _, err := buf.WriteTo(out); err != nil {
		return Result{}, fmt.Errorf("failed to write merged subtitles: %w", err)
	}
	return res, nil
}
