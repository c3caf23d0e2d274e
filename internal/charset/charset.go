// Package charset resolves the text encodings of input tracks and of the
// merged output.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DetectionOrder is tried in order when no encoding is forced. UTF-8 comes
// before the legacy CJK encodings, which accept almost any byte pairs.
var DetectionOrder = []string{"us-ascii", "utf-8", "gbk", "big5", "utf-16"}

var ErrUnknown = errors.New("unknown encoding")

// EncodingError reports text that no candidate encoding could handle.
type EncodingError struct {
	File   string
	Tried  []string
	Output bool
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Output {
		return fmt.Sprintf("cannot encode output as %s: %v (try --output-encoding utf-8)",
			strings.Join(e.Tried, ", "), e.Err)
	}
	return fmt.Sprintf("cannot decode %s with %s (force an encoding with -e ENCODING,%s)",
		e.File, strings.Join(e.Tried, ", "), e.File)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Encoding is a resolved encoding. ASCII has no x/text codec and is checked
// byte by byte.
type Encoding struct {
	Name  string
	enc   encoding.Encoding
	ascii bool
}

func (e *Encoding) String() string {
	return e.Name
}

var UTF8 = &Encoding{Name: "utf-8", enc: unicode.UTF8}

// aliases htmlindex would resolve differently than users expect.
var aliases = map[string]*Encoding{
	"ascii":      {Name: "us-ascii", ascii: true},
	"us-ascii":   {Name: "us-ascii", ascii: true},
	"utf8":       UTF8,
	"utf-8":      UTF8,
	"utf-16":     {Name: "utf-16", enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	"utf16":      {Name: "utf-16", enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	"latin1":     {Name: "iso-8859-1", enc: charmap.ISO8859_1},
	"iso-8859-1": {Name: "iso-8859-1", enc: charmap.ISO8859_1},
}

// Lookup resolves an encoding name, case-insensitively.
func Lookup(name string) (*Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := aliases[key]; ok {
		return e, nil
	}

	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = key
	}
	return &Encoding{Name: strings.ToLower(canonical), enc: enc}, nil
}

// Decode turns the content of file name into text. A forced encoding is
// used as is; otherwise DetectionOrder is tried and the first encoding
// that decodes without errors wins. It returns the text and the name of
// the encoding used.
func Decode(name string, data []byte, forced string) (string, string, error) {
	candidates := DetectionOrder
	if forced != "" {
		candidates = []string{forced}
	} else if hasUTF16BOM(data) {
		candidates = []string{"utf-16"}
	}

	var lastErr error
	for _, candidate := range candidates {
		enc, err := Lookup(candidate)
		if err != nil {
			if forced != "" {
				return "", "", err
			}
			lastErr = err
			continue
		}
		text, err := enc.decode(data)
		if err == nil {
			return text, enc.Name, nil
		}
		lastErr = err
	}

	return "", "", &EncodingError{File: name, Tried: candidates, Err: lastErr}
}

// OutputEncoding resolves the output encoding: explicit when given, else
// the charset of the locale environment, else UTF-8.
func OutputEncoding(explicit string) (*Encoding, error) {
	if explicit != "" {
		return Lookup(explicit)
	}
	if name := localeCharset(); name != "" {
		if enc, err := Lookup(name); err == nil {
			return enc, nil
		}
	}
	return UTF8, nil
}

// Encode converts text to enc, failing on the first character enc cannot
// represent.
func Encode(enc *Encoding, text string) ([]byte, error) {
	out, err := enc.encode(text)
	if err != nil {
		return nil, &EncodingError{Tried: []string{enc.Name}, Output: true, Err: err}
	}
	return out, nil
}

// CanEncode reports whether s survives Encode.
func CanEncode(enc *Encoding, s string) bool {
	_, err := enc.encode(s)
	return err == nil
}

func (e *Encoding) decode(data []byte) (string, error) {
	if e.ascii {
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return "", fmt.Errorf("byte 0x%02x at offset %d is not ascii", b, i)
			}
		}
		return string(data), nil
	}
	if e.enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", errors.New("invalid utf-8 sequence")
		}
		return string(data), nil
	}

	out, err := e.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	// x/text substitutes U+FFFD for invalid input instead of failing
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("invalid %s sequence", e.Name)
	}
	return string(out), nil
}

func (e *Encoding) encode(text string) ([]byte, error) {
	if e.ascii {
		for i, r := range text {
			if r >= utf8.RuneSelf {
				return nil, fmt.Errorf("character %q at offset %d is not ascii", r, i)
			}
		}
		return []byte(text), nil
	}
	if e.enc == unicode.UTF8 {
		return []byte(text), nil
	}
	return e.enc.NewEncoder().Bytes([]byte(text))
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xff, 0xfe}) || bytes.HasPrefix(data, []byte{0xfe, 0xff})
}

// localeCharset extracts the codeset of the first non-empty locale
// variable, e.g. "GBK" from "zh_CN.GBK@stroke".
func localeCharset() string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		_, codeset, found := strings.Cut(value, ".")
		if !found {
			return ""
		}
		codeset, _, _ = strings.Cut(codeset, "@")
		return codeset
	}
	return ""
}
