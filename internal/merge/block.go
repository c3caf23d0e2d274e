package merge

import (
	"strings"

	"github.com/mgpai22/mergesub/internal/timecode"
	"github.com/mgpai22/mergesub/internal/track"
)

// Block is one merged caption: what every track shows over [Start, End).
// Texts has one entry per track in registration order.
type Block struct {
	Seq   int
	Start timecode.Timestamp
	End   timecode.Timestamp
	Texts []string
}

// Text stacks the per-track texts, first track on top.
func (b Block) Text() string {
	return strings.Join(b.Texts, "\n")
}

// BlockSink receives concluded blocks. Returning false rejects the block
// and hands its sequence number to the next one.
type BlockSink interface {
	Append(b Block) (bool, error)
}

// ActiveSet holds the interval each track currently shows.
type ActiveSet struct {
	slots []*track.Interval
}

func NewActiveSet(tracks int) *ActiveSet {
	return &ActiveSet{slots: make([]*track.Interval, tracks)}
}

func (a *ActiveSet) Len() int {
	return len(a.slots)
}

func (a *ActiveSet) Get(i int) *track.Interval {
	return a.slots[i]
}

func (a *ActiveSet) Set(i int, iv *track.Interval) {
	a.slots[i] = iv
}

func (a *ActiveSet) Clear(i int) {
	a.slots[i] = nil
}

// Empty reports whether no track shows anything.
func (a *ActiveSet) Empty() bool {
	for _, iv := range a.slots {
		if iv != nil {
			return false
		}
	}
	return true
}

// Snapshot returns each slot's text, blank for empty slots.
func (a *ActiveSet) Snapshot(blank string) []string {
	texts := make([]string, len(a.slots))
	for i, iv := range a.slots {
		if iv == nil {
			texts[i] = blank
		} else {
			texts[i] = iv.Text
		}
	}
	return texts
}
