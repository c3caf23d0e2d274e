// Package merge drives several track cursors in lock-step over global time
// and concludes a combined block every time the set of visible captions
// changes.
package merge

import (
	"fmt"

	"github.com/mgpai22/mergesub/internal/layout"
	"github.com/mgpai22/mergesub/internal/logging"
	"github.com/mgpai22/mergesub/internal/timecode"
	"github.com/mgpai22/mergesub/internal/track"
)

// ErrInternal is shared with package track; both report contract
// violations between the merger and its cursors.
var ErrInternal = track.ErrInternal

// InternalError is returned when no track changes at the time the merger
// computed as the next event.
type InternalError struct {
	At  timecode.Timestamp
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%v: at %s: %s", ErrInternal, e.At, e.Msg)
}

func (e *InternalError) Unwrap() error {
	return ErrInternal
}

// Track is the part of *track.Cursor the merger relies on.
type Track interface {
	Name() string
	PeekNext() (timecode.Timestamp, error)
	Observe(t timecode.Timestamp) (track.Event, error)
}

type Stats struct {
	Concluded int
	Accepted  int
	Rejected  int
	Events    int
}

type Merger struct {
	tracks []Track
	active *ActiveSet
	blank  string
	sink   BlockSink
	log    *logging.Logger

	last  timecode.Timestamp
	seq   int
	stats Stats
}

// New builds a merger over tracks in registration order. engine provides
// the blank text of inactive tracks.
func New(
	tracks []Track,
	engine *layout.Engine,
	sink BlockSink,
	log *logging.Logger,
) *Merger {
	if log == nil {
		log = logging.Nop()
	}
	return &Merger{
		tracks: tracks,
		active: NewActiveSet(len(tracks)),
		blank:  engine.Blank(),
		sink:   sink,
		log:    log,
	}
}

// Run merges until every track is exhausted.
func (m *Merger) Run() error {
	type trackEvent struct {
		index int
		event track.Event
	}

	for {
		t, err := m.nextEventTime()
		if err != nil {
			return err
		}
		if t.IsInfinite() {
			m.log.Debugw("All tracks exhausted",
				"blocks", m.stats.Accepted,
				"rejected", m.stats.Rejected,
			)
			return nil
		}

		if err := m.conclude(t); err != nil {
			return err
		}

		var events []trackEvent
		for i, tr := range m.tracks {
			ev, err := tr.Observe(t)
			if err != nil {
				return err
			}
			if ev.Kind != track.None {
				events = append(events, trackEvent{index: i, event: ev})
			}
		}
		if len(events) == 0 {
			return &InternalError{At: t, Msg: "no track changed at the computed event time"}
		}

		for _, e := range events {
			switch e.event.Kind {
			case track.On:
				m.active.Set(e.index, e.event.Interval)
			case track.Off:
				m.active.Clear(e.index)
			}
			m.log.Debugw("Track event",
				"time", t.String(),
				"track", m.tracks[e.index].Name(),
				"event", e.event.Kind.String(),
			)
		}
		m.stats.Events += len(events)
		m.last = t
	}
}

func (m *Merger) Stats() Stats {
	return m.stats
}

// nextEventTime is the earliest PeekNext over all tracks. The first track
// wins ties.
func (m *Merger) nextEventTime() (timecode.Timestamp, error) {
	minimum := timecode.Infinite()
	for _, tr := range m.tracks {
		next, err := tr.PeekNext()
		if err != nil {
			return timecode.Timestamp{}, err
		}
		if next.Before(minimum) {
			minimum = next
		}
	}
	return minimum, nil
}

// conclude hands the block [last, t) to the sink unless nothing is shown.
func (m *Merger) conclude(t timecode.Timestamp) error {
	if m.active.Empty() {
		return nil
	}

	m.seq++
	block := Block{
		Seq:   m.seq,
		Start: m.last,
		End:   t,
		Texts: m.active.Snapshot(m.blank),
	}

	ok, err := m.sink.Append(block)
	if err != nil {
		return fmt.Errorf("failed to emit block %d: %w", block.Seq, err)
	}

	m.stats.Concluded++
	if ok {
		m.stats.Accepted++
	} else {
		m.stats.Rejected++
		m.seq--
	}
	return nil
}
