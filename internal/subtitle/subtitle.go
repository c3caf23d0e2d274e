package subtitle

import (
	"fmt"
	"strings"

	"github.com/mgpai22/mergesub/internal/timecode"
)

// single SRT entry as written in the file, before any timing repair
type Entry struct {
	Index int
	Start timecode.Timestamp
	End   timecode.Timestamp
	Lines []string

	// Line is the source line number of the timestamp line.
	Line int
}

// Text joins the entry's lines the way they appear in the file.
func (e Entry) Text() string {
	return strings.Join(e.Lines, "\n")
}

// FormatError reports a structural problem in an SRT source. It is fatal
// for the whole merge.
type FormatError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:L%d: %s: %v", e.File, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s:L%d: %s", e.File, e.Line, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
