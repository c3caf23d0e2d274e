package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mgpai22/mergesub/internal/timecode"
)

const maxLineSize = 1024 * 1024

var (
	indexRegex     = regexp.MustCompile(`^\d+$`)
	timestampRegex = regexp.MustCompile(
		`^(` + timecode.Pattern + `) --> (` + timecode.Pattern + `)$`,
	)
)

// Reader decodes SRT entries one at a time from already-decoded text.
// Entries are returned exactly as written; timing repair is up to the
// caller.
type Reader struct {
	name    string
	scanner *bufio.Scanner
	lineNum int
}

// NewReader wraps r. name is only used in error messages.
func NewReader(name string, r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Reader{
		name:    name,
		scanner: scanner,
	}
}

func (r *Reader) Name() string {
	return r.name
}

// Line is the number of the last line read.
func (r *Reader) Line() int {
	return r.lineNum
}

// Next returns the next entry, or nil at end of input. Reaching the end of
// input after a timestamp line but before any text also yields nil.
func (r *Reader) Next() (*Entry, error) {
	line, ok, err := r.readNonEmpty()
	if err != nil || !ok {
		return nil, err
	}

	if !indexRegex.MatchString(line) {
		return nil, r.formatError(fmt.Sprintf("expected subtitle index but got %q", line), nil)
	}
	index, err := strconv.Atoi(line)
	if err != nil {
		return nil, r.formatError(fmt.Sprintf("subtitle index %q out of range", line), err)
	}

	line, ok, err = r.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, r.formatError("subtitle index is not followed by a timestamp line before end of input", nil)
	}

	line = strings.TrimSpace(line)
	matches := timestampRegex.FindStringSubmatch(line)
	if matches == nil {
		return nil, r.formatError(
			fmt.Sprintf("expected start --> end but got %q", line),
			timecode.ErrFormat,
		)
	}

	start, err := timecode.Parse(matches[1])
	if err != nil {
		return nil, r.formatError("invalid start timestamp", err)
	}
	end, err := timecode.Parse(matches[2])
	if err != nil {
		return nil, r.formatError("invalid end timestamp", err)
	}

	entry := &Entry{
		Index: index,
		Start: start,
		End:   end,
		Line:  r.lineNum,
	}

	line, ok, err = r.readNonEmpty()
	if err != nil || !ok {
		return nil, err
	}
	for ok && line != "" {
		entry.Lines = append(entry.Lines, line)
		line, ok, err = r.readLine()
		if err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// ReadAll decodes every entry of r.
func ReadAll(name string, r io.Reader) ([]Entry, error) {
	reader := NewReader(name, r)

	var entries []Entry
	for {
		entry, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return entries, nil
		}
		entries = append(entries, *entry)
	}
}

// readLine returns the next line with trailing whitespace removed. ok is
// false at end of input.
func (r *Reader) readLine() (string, bool, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("error reading %s: %w", r.name, err)
		}
		return "", false, nil
	}
	r.lineNum++

	line := r.scanner.Text()
	if r.lineNum == 1 {
		line = strings.TrimPrefix(line, "\ufeff")
	}

	return strings.TrimRightFunc(line, unicode.IsSpace), true, nil
}

func (r *Reader) readNonEmpty() (string, bool, error) {
	for {
		line, ok, err := r.readLine()
		if err != nil || !ok {
			return "", ok, err
		}
		if strings.TrimSpace(line) != "" {
			return line, true, nil
		}
	}
}

func (r *Reader) formatError(msg string, err error) *FormatError {
	return &FormatError{
		File: r.name,
		Line: r.lineNum,
		Msg:  msg,
		Err:  err,
	}
}
