package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mgpai22/mergesub/internal/timecode"
)

// SRTWriter streams numbered blocks in SubRip format. It is the final sink
// of the merge pipeline.
type SRTWriter struct {
	w      io.Writer
	blocks int
}

func NewSRTWriter(w io.Writer) *SRTWriter {
	return &SRTWriter{w: w}
}

// writes one block: number, timestamps, text, blank line
func (w *SRTWriter) WriteBlock(
	seq int,
	start, end timecode.Timestamp,
	text string,
) error {
	// 00:00:00,000 --> 00:00:00,000
	if _, err := fmt.Fprintf(w.w, "%d\n%s --> %s\n%s\n\n", seq, start, end, text); err != nil {
		return fmt.Errorf("failed to write block %d: %w", seq, err)
	}
	w.blocks++
	return nil
}

// Blocks is the number of blocks written so far.
func (w *SRTWriter) Blocks() int {
	return w.blocks
}

// WriteEntries renders entries as an SRT document, keeping their indices.
func WriteEntries(w io.Writer, entries []Entry) error {
	sw := NewSRTWriter(w)
	for _, entry := range entries {
		if err := sw.WriteBlock(entry.Index, entry.Start, entry.End, entry.Text()); err != nil {
			return err
		}
	}
	return nil
}

// writes entries to an SRT file, creating parent directories
func WriteFile(path string, entries []Entry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteEntries(&buf, entries); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
