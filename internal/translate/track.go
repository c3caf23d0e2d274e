package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/mergesub/internal/subtitle"
)

// Track translates every entry and returns a copy with identical timing.
// Results that come back with an unknown index are an error. Entries
// without a usable translation keep their original text.
func Track(
	ctx context.Context,
	t Translator,
	entries []subtitle.Entry,
	concurrency int,
) ([]subtitle.Entry, error) {
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Index: i, Text: e.Text()}
	}

	var (
		results []Result
		err     error
	)
	if ct, ok := t.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = t.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	out := make([]subtitle.Entry, len(entries))
	copy(out, entries)
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(out) {
			return nil, fmt.Errorf("translation returned unknown index %d", r.Index)
		}
		if lines := splitLines(r.Text); len(lines) > 0 {
			out[r.Index].Lines = lines
		}
	}
	return out, nil
}

// splitLines drops empty lines, which would end an SRT block early.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
