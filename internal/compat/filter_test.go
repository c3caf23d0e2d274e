package compat

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/mergesub/internal/merge"
	"github.com/mgpai22/mergesub/internal/subtitle"
	"github.com/mgpai22/mergesub/internal/timecode"
)

func block(seq int, start, end int64, texts ...string) merge.Block {
	return merge.Block{
		Seq:   seq,
		Start: timecode.FromMillis(start),
		End:   timecode.FromMillis(end),
		Texts: texts,
	}
}

func TestFilterQuantizesAndWrites(t *testing.T) {
	var buf bytes.Buffer
	f := New(subtitle.NewSRTWriter(&buf), nil)

	ok, err := f.Append(block(1, 1001, 2009, "Hi", "Bye"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "1\n00:00:01,000 --> 00:00:02,000\nHi\nBye\n\n", buf.String())

	last, started := f.Last()
	assert.True(t, started)
	assert.Equal(t, int64(2000), last.Millis())
}

func TestFilterAcceptsFirstBlockUnconditionally(t *testing.T) {
	var buf bytes.Buffer
	f := New(subtitle.NewSRTWriter(&buf), nil)

	_, started := f.Last()
	assert.False(t, started)

	ok, err := f.Append(block(1, 1, 5, "x"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:00,000\nx\n\n", buf.String())
}

func TestFilterDecisions(t *testing.T) {
	tests := []struct {
		name      string
		last      int64
		start     int64
		end       int64
		accept    bool
		wantStart int64
	}{
		{name: "contiguous on grid", last: 2000, start: 2000, end: 3000, accept: true, wantStart: 2000},
		{name: "collapses on grid", last: 2000, start: 2003, end: 2008, accept: false},
		{name: "short after gap", last: 2000, start: 2500, end: 2505, accept: false},
		{name: "gap of one step", last: 2005, start: 2015, end: 2100, accept: true, wantStart: 2010},
		{name: "start moved past off-grid end", last: 2005, start: 2000, end: 2100, accept: true, wantStart: 2010},
		{name: "moved start swallows block", last: 1003, start: 1006, end: 1010, accept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			sw := subtitle.NewSRTWriter(&buf)
			f := New(sw, nil)
			f.last = timecode.FromMillis(tt.last)
			f.started = true

			ok, err := f.Append(block(7, tt.start, tt.end, "t"))
			require.NoError(t, err)
			assert.Equal(t, tt.accept, ok)

			last, _ := f.Last()
			if !tt.accept {
				assert.Zero(t, sw.Blocks())
				assert.Equal(t, tt.last, last.Millis(), "rejection must leave state untouched")
				return
			}
			require.Equal(t, 1, sw.Blocks())
			entries, err := subtitle.ReadAll("out.srt", &buf)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantStart, entries[0].Start.Millis())
			assert.Equal(t, last, entries[0].End)
		})
	}
}

func TestFilterRejectedNumberIsReused(t *testing.T) {
	var buf bytes.Buffer
	sw := subtitle.NewSRTWriter(&buf)
	f := New(sw, nil)
	f.last = timecode.FromMillis(1003)
	f.started = true

	// [1006, 1010) floors to [1000, 1010); start then moves to 1010
	ok, err := f.Append(block(4, 1006, 1010, "gone"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.Append(block(4, 1010, 1500, "kept"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "4\n00:00:01,010 --> 00:00:01,500\nkept\n\n", buf.String())
}

type failingSink struct{}

func (failingSink) WriteBlock(int, timecode.Timestamp, timecode.Timestamp, string) error {
	return errors.New("disk full")
}

func TestFilterPropagatesSinkError(t *testing.T) {
	f := New(failingSink{}, nil)

	ok, err := f.Append(block(1, 0, 1000, "x"))
	require.Error(t, err)
	assert.False(t, ok)

	_, started := f.Last()
	assert.False(t, started)
}
