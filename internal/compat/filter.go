// Package compat drops or adjusts merged blocks that players with a 10ms
// timing resolution (mplayer and friends) would render badly.
package compat

import (
	"github.com/mgpai22/mergesub/internal/logging"
	"github.com/mgpai22/mergesub/internal/merge"
	"github.com/mgpai22/mergesub/internal/timecode"
)

// MinDuration is the shortest block a player can show, in milliseconds.
const MinDuration = 10

// Sink receives the blocks the filter lets through.
type Sink interface {
	WriteBlock(seq int, start, end timecode.Timestamp, text string) error
}

// Filter quantizes blocks to the 10ms grid and rejects the ones that would
// collapse to nothing there.
type Filter struct {
	sink Sink
	log  *logging.Logger

	last    timecode.Timestamp
	started bool
}

var _ merge.BlockSink = (*Filter)(nil)

func New(sink Sink, log *logging.Logger) *Filter {
	if log == nil {
		log = logging.Nop()
	}
	return &Filter{sink: sink, log: log}
}

// Last is the end of the last accepted block.
func (f *Filter) Last() (timecode.Timestamp, bool) {
	return f.last, f.started
}

// Append implements merge.BlockSink.
func (f *Filter) Append(b merge.Block) (bool, error) {
	start, end := b.Start.Floor10(), b.End.Floor10()

	ok := f.accept(&start, end)
	if !ok {
		f.log.Debugw("Dropped block too short for the 10ms grid",
			"seq", b.Seq,
			"start", b.Start.String(),
			"end", b.End.String(),
		)
		return false, nil
	}

	if err := f.sink.WriteBlock(b.Seq, start, end, b.Text()); err != nil {
		return false, err
	}
	f.last = end
	f.started = true
	return true, nil
}

// accept decides on the quantized [start, end) and may move start forward.
func (f *Filter) accept(start *timecode.Timestamp, end timecode.Timestamp) bool {
	if !f.started {
		return true
	}

	gap := start.Sub(f.last)
	if (gap >= MinDuration || f.last.OnTenMs()) && end.Sub(*start) >= MinDuration {
		return true
	}

	// the previous end sits off the grid: clear it by one grid step
	if !f.last.OnTenMs() && gap < MinDuration {
		*start = f.last.Add(MinDuration).Floor10()
		return end.Sub(*start) >= MinDuration
	}
	return false
}
