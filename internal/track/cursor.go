// Package track turns one SRT source into a stream of non-overlapping,
// strictly advancing intervals and reports the ON/OFF events the merger
// needs.
package track

import (
	"errors"
	"fmt"

	"github.com/mgpai22/mergesub/internal/layout"
	"github.com/mgpai22/mergesub/internal/logging"
	"github.com/mgpai22/mergesub/internal/subtitle"
	"github.com/mgpai22/mergesub/internal/timecode"
)

// ErrInternal marks violations of the cursor/merger contract. They point at
// a bug, not at bad input.
var ErrInternal = errors.New("internal consistency error")

// InternalError is returned when the merger drives a cursor past a time it
// never announced.
type InternalError struct {
	Track string
	Msg   string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%v: track %s: %s", ErrInternal, e.Track, e.Msg)
}

func (e *InternalError) Unwrap() error {
	return ErrInternal
}

type EventKind int

const (
	None EventKind = iota
	On
	Off
)

func (k EventKind) String() string {
	switch k {
	case On:
		return "ON"
	case Off:
		return "OFF"
	default:
		return "NONE"
	}
}

// Event is what a track reports for a point in global time.
type Event struct {
	Kind     EventKind
	Interval *Interval
}

type Options struct {
	// AlignBottom pads short captions on top. By convention only the first
	// track aligns bottom.
	AlignBottom bool
	Engine      *layout.Engine
}

// Cursor walks one track. It is owned by a single merge and never shared.
type Cursor struct {
	reader *subtitle.Reader
	opts   Options
	log    *logging.Logger

	current *Interval
	now     timecode.Timestamp
	done    bool

	lastIndex int
	decoded   int
	warnings  int
}

// New creates a cursor and decodes the first interval against time zero.
func New(r *subtitle.Reader, opts Options, log *logging.Logger) (*Cursor, error) {
	if log == nil {
		log = logging.Nop()
	}
	c := &Cursor{
		reader: r,
		opts:   opts,
		log:    log,
	}
	if err := c.advance(timecode.Zero()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cursor) Name() string {
	return c.reader.Name()
}

// Current is the interval being tracked, nil once the track is exhausted.
func (c *Cursor) Current() *Interval {
	return c.current
}

func (c *Cursor) Exhausted() bool {
	return c.current == nil
}

// Now is the last global time the merger reported through Observe.
func (c *Cursor) Now() timecode.Timestamp {
	return c.now
}

// Decoded is the number of intervals read so far.
func (c *Cursor) Decoded() int {
	return c.decoded
}

// Warnings counts captions whose end had to be repaired.
func (c *Cursor) Warnings() int {
	return c.warnings
}

// PeekNext returns the next time this track changes state: the current
// interval's start if not reached yet, else its end. Exhausted tracks
// return timecode.Infinite().
func (c *Cursor) PeekNext() (timecode.Timestamp, error) {
	if c.current == nil {
		return timecode.Infinite(), nil
	}
	if c.now.Before(c.current.Start) {
		return c.current.Start, nil
	}
	if c.now.Before(c.current.End) {
		return c.current.End, nil
	}
	return timecode.Timestamp{}, &InternalError{
		Track: c.Name(),
		Msg: fmt.Sprintf(
			"time %s is not before start %s or end %s of index %d",
			c.now, c.current.Start, c.current.End, c.lastIndex,
		),
	}
}

// Observe moves the track to global time t and reports what happened
// there. At the end of an interval the cursor reads ahead to the next one.
func (c *Cursor) Observe(t timecode.Timestamp) (Event, error) {
	c.now = t
	if c.current == nil {
		return Event{Kind: None}, nil
	}

	switch t.Compare(c.current.Start) {
	case -1:
		return Event{Kind: None, Interval: c.current}, nil
	case 0:
		return Event{Kind: On, Interval: c.current}, nil
	}

	switch t.Compare(c.current.End) {
	case -1:
		return Event{Kind: None, Interval: c.current}, nil
	case 1:
		return Event{}, &InternalError{
			Track: c.Name(),
			Msg:   fmt.Sprintf("time %s skipped past end of index %d %s", t, c.lastIndex, c.current),
		}
	}

	ev := Event{Kind: Off, Interval: c.current}
	for c.current != nil && !t.Before(c.current.End) {
		if err := c.advance(t); err != nil {
			return Event{}, err
		}
	}
	return ev, nil
}

// advance decodes the next interval. Its start is pushed past now so the
// merge never sees the same time twice, and an interval that would end at
// or before its start is kept as a 1ms flash.
func (c *Cursor) advance(now timecode.Timestamp) error {
	if c.done {
		c.current = nil
		return nil
	}

	entry, err := c.reader.Next()
	if err != nil {
		return err
	}
	if entry == nil {
		c.done = true
		c.current = nil
		c.log.Debugw("Track exhausted",
			"file", c.Name(),
			"intervals", c.decoded,
		)
		return nil
	}

	start, end := entry.Start, entry.End
	if !start.After(now) {
		start = now.Add(1)
		c.log.Debugw("Shifted caption start past merged time",
			"file", c.Name(),
			"line", entry.Line,
			"index", entry.Index,
			"start", entry.Start.String(),
			"shifted_to", start.String(),
		)
	}
	if !start.Before(end) {
		c.warnings++
		c.log.Warnw("Caption does not start before it ends, showing it for 1ms",
			"file", c.Name(),
			"line", entry.Line,
			"index", entry.Index,
			"start", entry.Start.String(),
			"end", entry.End.String(),
			"repaired_start", start.String(),
		)
		end = start.Add(1)
	}

	iv := NewIntervalFromLines(start, end, entry.Lines, c.opts.Engine, c.opts.AlignBottom)
	iv.Seq = entry.Index
	iv.Line = entry.Line

	c.current = iv
	c.lastIndex = entry.Index
	c.decoded++
	return nil
}
