// Package timecode implements the millisecond time model used by the
// merge engine. A Timestamp is an exact, non-negative millisecond count;
// SRT's HH:MM:SS,mmm text form is parsed and printed here.
package timecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrFormat is wrapped by every error returned from Parse.
var ErrFormat = errors.New("invalid timestamp format")

// Pattern matches one SRT timestamp. It is not anchored so callers can
// embed it in larger expressions.
const Pattern = `\d\d:\d\d:\d\d,\d\d\d`

var timestampRegex = regexp.MustCompile(`^(\d\d):(\d\d):(\d\d),(\d\d\d)$`)

// infiniteMillis is one millisecond past 99:59:59,999, the largest value
// Parse accepts. It must stay finite so Sub and Add keep working on it.
const infiniteMillis int64 = 100 * 3600 * 1000

// Timestamp is a point on a caption timeline with millisecond precision.
type Timestamp struct {
	ms int64
}

// New builds a Timestamp from seconds and milliseconds. millis may exceed
// 999; the excess carries into seconds.
func New(seconds, millis int64) Timestamp {
	return FromMillis(seconds*1000 + millis)
}

// FromMillis returns the timestamp ms milliseconds after zero. Negative
// values clamp to zero.
func FromMillis(ms int64) Timestamp {
	if ms < 0 {
		ms = 0
	}
	return Timestamp{ms: ms}
}

// Zero is the start of every timeline.
func Zero() Timestamp {
	return Timestamp{}
}

// Infinite is the sentinel reported by exhausted tracks. It compares
// greater than any timestamp a track can carry.
func Infinite() Timestamp {
	return Timestamp{ms: infiniteMillis}
}

// Parse reads an HH:MM:SS,mmm timestamp.
func Parse(s string) (Timestamp, error) {
	m := timestampRegex.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}

	// the regex guarantees digits, so Atoi cannot fail
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	msec, _ := strconv.Atoi(m[4])

	return New(int64(hour*3600+minute*60+sec), int64(msec)), nil
}

func (t Timestamp) Millis() int64 {
	return t.ms
}

// OnTenMs reports whether t lies on the 10ms grid.
func (t Timestamp) OnTenMs() bool {
	return t.ms%10 == 0
}

// Floor10 rounds t down to the 10ms grid.
func (t Timestamp) Floor10() Timestamp {
	return Timestamp{ms: t.ms / 10 * 10}
}

func (t Timestamp) IsInfinite() bool {
	return t.ms == infiniteMillis
}

// Compare returns -1, 0 or 1 depending on whether t is before, equal to or
// after o.
func (t Timestamp) Compare(o Timestamp) int {
	switch {
	case t.ms < o.ms:
		return -1
	case t.ms > o.ms:
		return 1
	default:
		return 0
	}
}

func (t Timestamp) Before(o Timestamp) bool { return t.ms < o.ms }
func (t Timestamp) After(o Timestamp) bool  { return t.ms > o.ms }
func (t Timestamp) Equal(o Timestamp) bool  { return t.ms == o.ms }

// Sub returns the signed distance t - o in milliseconds.
func (t Timestamp) Sub(o Timestamp) int64 {
	return t.ms - o.ms
}

// Add returns t shifted by delta milliseconds.
func (t Timestamp) Add(delta int64) Timestamp {
	return FromMillis(t.ms + delta)
}

// String prints HH:MM:SS,mmm, or +Inf for the sentinel.
func (t Timestamp) String() string {
	if t.IsInfinite() {
		return "+Inf"
	}
	msec := t.ms % 1000
	seconds := t.ms / 1000
	return fmt.Sprintf(
		"%02d:%02d:%02d,%03d",
		seconds/3600,
		seconds/60%60,
		seconds%60,
		msec,
	)
}
