// Package layout fits the text lines of one caption into the fixed number
// of lines every track contributes to a merged block.
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/mgpai22/mergesub/internal/config"
)

// Engine pads short captions and folds long ones to exactly
// LinesPerSubtitle lines.
type Engine struct {
	lines       int
	expand      bool
	placeholder string
	separator   string
}

func New(cfg config.Config) *Engine {
	return &Engine{
		lines:       cfg.LinesPerSubtitle,
		expand:      cfg.MergeExpandLines,
		placeholder: cfg.BlankPlaceholder,
		separator:   cfg.LineSeparator,
	}
}

// Lines is the target line count.
func (e *Engine) Lines() int {
	return e.lines
}

// Lay returns the caption's lines padded or merged to the target count.
// Padding goes on top when alignBottom is set, below otherwise. With line
// merging disabled, captions longer than the target are returned as is.
// The input slice is not modified.
func (e *Engine) Lay(lines []string, alignBottom bool) []string {
	out := make([]string, len(lines), max(len(lines), e.lines))
	copy(out, lines)

	if missing := e.lines - len(out); missing > 0 {
		pad := make([]string, missing)
		for i := range pad {
			pad[i] = e.placeholder
		}
		if alignBottom {
			out = append(pad, out...)
		} else {
			out = append(out, pad...)
		}
	}

	if e.expand {
		for len(out) > e.lines {
			out = e.mergeShortestPair(out)
		}
	}

	return out
}

// Compose lays out lines and joins them into display text.
func (e *Engine) Compose(lines []string, alignBottom bool) string {
	return strings.Join(e.Lay(lines, alignBottom), "\n")
}

// Blank is the display text of a track with nothing visible.
func (e *Engine) Blank() string {
	pad := make([]string, e.lines)
	for i := range pad {
		pad[i] = e.placeholder
	}
	return strings.Join(pad, "\n")
}

// mergeShortestPair joins the adjacent pair with the smallest combined
// length. The earliest pair wins ties.
func (e *Engine) mergeShortestPair(lines []string) []string {
	best := 0
	bestLen := pairLen(lines, 0)
	for i := 1; i < len(lines)-1; i++ {
		if l := pairLen(lines, i); l < bestLen {
			best, bestLen = i, l
		}
	}

	merged := make([]string, 0, len(lines)-1)
	merged = append(merged, lines[:best]...)
	merged = append(merged, lines[best]+e.separator+lines[best+1])
	merged = append(merged, lines[best+2:]...)
	return merged
}

func pairLen(lines []string, i int) int {
	return utf8.RuneCountInString(lines[i]) + utf8.RuneCountInString(lines[i+1])
}
