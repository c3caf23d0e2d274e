package track

import (
	"fmt"

	"github.com/mgpai22/mergesub/internal/layout"
	"github.com/mgpai22/mergesub/internal/timecode"
)

// Interval is one caption of one track, visible over [Start, End).
type Interval struct {
	Start timecode.Timestamp
	End   timecode.Timestamp

	// Text is the laid-out display text. It never changes after
	// construction.
	Text string

	// Seq is the SRT index the interval was decoded from; Line is the
	// source line of its timestamp line.
	Seq  int
	Line int
}

// NewInterval builds an interval from text that is already laid out.
func NewInterval(start, end timecode.Timestamp, text string) *Interval {
	return &Interval{Start: start, End: end, Text: text}
}

// NewIntervalFromLines lays out raw caption lines with engine.
func NewIntervalFromLines(
	start, end timecode.Timestamp,
	lines []string,
	engine *layout.Engine,
	alignBottom bool,
) *Interval {
	return NewInterval(start, end, engine.Compose(lines, alignBottom))
}

func (iv *Interval) String() string {
	return fmt.Sprintf("[%s, %s) %q", iv.Start, iv.End, iv.Text)
}
