package translate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var codeFence = regexp.MustCompile("```(?:json)?\\s*")

// parseResults pulls the translated array out of a model reply and checks
// it covers the batch.
func parseResults(reply string, expected int) ([]Result, error) {
	text := cleanJSONResponse(reply)

	results, err := extractTranslationResults(text)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(text, 200),
		)
	}
	if len(results) != expected {
		return nil, fmt.Errorf("expected %d results, got %d", expected, len(results))
	}
	return results, nil
}

func cleanJSONResponse(s string) string {
	s = codeFence.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// fixInvalidEscapes doubles backslashes JSON does not accept, e.g. the \N
// some models copy from ASS text, so the literal survives decoding.
func fixInvalidEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		switch next {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
			b.WriteByte('\\')
		default:
			b.WriteString("\\\\")
		}
		b.WriteByte(next)
		i++
	}
	return b.String()
}

// extractTranslationResults scans for the first JSON value that holds
// results, either a bare array or an array under a wrapper key.
func extractTranslationResults(text string) ([]Result, error) {
	text = fixInvalidEscapes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		if results, ok := tryExtractResults(raw); ok {
			return results, nil
		}
	}
	return nil, errors.New("no valid translation JSON found in response")
}

var wrapperKeys = []string{"results", "translations", "data", "items"}

func tryExtractResults(raw json.RawMessage) ([]Result, bool) {
	doc := gjson.ParseBytes(raw)
	if doc.IsArray() {
		return decodeResults(doc.Raw)
	}
	if !doc.IsObject() {
		return nil, false
	}

	for _, key := range wrapperKeys {
		if field := doc.Get(key); field.IsArray() {
			if results, ok := decodeResults(field.Raw); ok {
				return results, true
			}
		}
	}

	var (
		results []Result
		found   bool
	)
	doc.ForEach(func(_, field gjson.Result) bool {
		if field.IsArray() {
			results, found = decodeResults(field.Raw)
		}
		return !found
	})
	return results, found
}

func decodeResults(raw string) ([]Result, bool) {
	var results []Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, false
	}
	return results, validateResults(results)
}

// validateResults accepts a list once any entry carries text.
func validateResults(results []Result) bool {
	for _, r := range results {
		if r.Text != "" {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
