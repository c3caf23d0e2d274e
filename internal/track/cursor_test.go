package track

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mgpai22/mergesub/internal/config"
	"github.com/mgpai22/mergesub/internal/layout"
	"github.com/mgpai22/mergesub/internal/logging"
	"github.com/mgpai22/mergesub/internal/subtitle"
	"github.com/mgpai22/mergesub/internal/timecode"
)

func ms(v int64) timecode.Timestamp {
	return timecode.FromMillis(v)
}

func newCursor(t *testing.T, content string) (*Cursor, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	cfg := config.DefaultConfig()
	cfg.BlankPlaceholder = "_"

	c, err := New(
		subtitle.NewReader("track.srt", strings.NewReader(content)),
		Options{AlignBottom: true, Engine: layout.New(cfg)},
		logging.New(zap.New(core)),
	)
	require.NoError(t, err)
	return c, logs
}

func TestCursorWalksIntervals(t *testing.T) {
	c, _ := newCursor(t, "1\n00:00:01,000 --> 00:00:03,000\nHi\n\n"+
		"2\n00:00:05,000 --> 00:00:06,000\nBye\n")

	next, err := c.PeekNext()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), next.Millis())

	ev, err := c.Observe(ms(500))
	require.NoError(t, err)
	assert.Equal(t, None, ev.Kind)

	ev, err = c.Observe(ms(1000))
	require.NoError(t, err)
	assert.Equal(t, On, ev.Kind)
	assert.Equal(t, "_\nHi", ev.Interval.Text)
	assert.Equal(t, 1, ev.Interval.Seq)

	next, err = c.PeekNext()
	require.NoError(t, err)
	assert.Equal(t, int64(3000), next.Millis())

	ev, err = c.Observe(ms(3000))
	require.NoError(t, err)
	assert.Equal(t, Off, ev.Kind)
	assert.Equal(t, "_\nHi", ev.Interval.Text)

	// read ahead to the second caption
	require.NotNil(t, c.Current())
	assert.Equal(t, int64(5000), c.Current().Start.Millis())
	assert.Equal(t, 2, c.Decoded())

	_, err = c.Observe(ms(5000))
	require.NoError(t, err)
	ev, err = c.Observe(ms(6000))
	require.NoError(t, err)
	assert.Equal(t, Off, ev.Kind)

	assert.True(t, c.Exhausted())
	next, err = c.PeekNext()
	require.NoError(t, err)
	assert.True(t, next.IsInfinite())

	ev, err = c.Observe(ms(7000))
	require.NoError(t, err)
	assert.Equal(t, None, ev.Kind)
}

func TestCursorShiftsStartPastMergedTime(t *testing.T) {
	// the second caption overlaps the first one
	c, _ := newCursor(t, "1\n00:00:00,000 --> 00:00:02,000\nA\n\n"+
		"2\n00:00:01,500 --> 00:00:04,000\nB\n")

	// a caption at zero starts 1ms later
	assert.Equal(t, int64(1), c.Current().Start.Millis())

	_, err := c.Observe(ms(1))
	require.NoError(t, err)
	_, err = c.Observe(ms(2000))
	require.NoError(t, err)

	require.NotNil(t, c.Current())
	assert.Equal(t, int64(2001), c.Current().Start.Millis())
	assert.Equal(t, int64(4000), c.Current().End.Millis())
	assert.Zero(t, c.Warnings())
}

func TestCursorRepairsDegenerateInterval(t *testing.T) {
	c, logs := newCursor(t, "1\n00:00:02,000 --> 00:00:01,000\nBackwards\n")

	iv := c.Current()
	require.NotNil(t, iv)
	assert.Equal(t, int64(2000), iv.Start.Millis())
	assert.Equal(t, int64(2001), iv.End.Millis())
	assert.Equal(t, 1, c.Warnings())

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "track.srt", warnings[0].ContextMap()["file"])
	assert.Equal(t, int64(2), warnings[0].ContextMap()["line"])
}

func TestCursorRepairsIntervalSwallowedByShift(t *testing.T) {
	// after the shift the second caption would start at its own end
	c, _ := newCursor(t, "1\n00:00:01,000 --> 00:00:03,000\nA\n\n"+
		"2\n00:00:02,000 --> 00:00:03,000\nB\n")

	_, err := c.Observe(ms(1000))
	require.NoError(t, err)
	_, err = c.Observe(ms(3000))
	require.NoError(t, err)

	iv := c.Current()
	require.NotNil(t, iv)
	assert.Equal(t, int64(3001), iv.Start.Millis())
	assert.Equal(t, int64(3002), iv.End.Millis())
	assert.Equal(t, 1, c.Warnings())
}

func TestCursorStartAlwaysAfterObservedTime(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\na\n\n" +
		"2\n00:00:01,000 --> 00:00:02,000\nb\n\n" +
		"3\n00:00:00,500 --> 00:00:00,700\nc\n\n" +
		"4\n00:00:02,002 --> 00:00:02,003\nd\n"
	c, _ := newCursor(t, content)

	seen := 0
	for !c.Exhausted() {
		if c.Decoded() != seen {
			seen = c.Decoded()
			assert.True(t, c.Current().Start.After(c.Now()),
				"start %s must be after %s", c.Current().Start, c.Now())
		}

		next, err := c.PeekNext()
		require.NoError(t, err)
		_, err = c.Observe(next)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, c.Decoded())
	assert.Equal(t, 3, c.Warnings())
}

func TestCursorInternalErrors(t *testing.T) {
	c, _ := newCursor(t, "1\n00:00:01,000 --> 00:00:02,000\nx\n")

	_, err := c.Observe(ms(1000))
	require.NoError(t, err)

	_, err = c.Observe(ms(2500))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	var ie *InternalError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "track.srt", ie.Track)

	// the cursor now sits past its interval
	_, err = c.PeekNext()
	assert.ErrorIs(t, err, ErrInternal)
}

func TestCursorPropagatesFormatError(t *testing.T) {
	_, err := New(
		subtitle.NewReader("bad.srt", strings.NewReader("1\n00:00:01-000 --> 00:00:02,000\nx\n")),
		Options{Engine: layout.New(config.DefaultConfig())},
		nil,
	)
	require.Error(t, err)

	var fe *subtitle.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Line)
}

func TestCursorEmptyTrack(t *testing.T) {
	c, _ := newCursor(t, "")
	assert.True(t, c.Exhausted())

	next, err := c.PeekNext()
	require.NoError(t, err)
	assert.True(t, next.IsInfinite())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "ON", On.String())
	assert.Equal(t, "OFF", Off.String())
	assert.Equal(t, "NONE", None.String())
}
