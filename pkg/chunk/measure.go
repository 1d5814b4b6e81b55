package chunk

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode selects how the size of file content is measured.
type Mode int

const (
	// ModeBytes measures raw byte length.
	ModeBytes Mode = iota
	// ModeTokens counts whitespace-delimited tokens.
	ModeTokens
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeBytes:
		return "bytes"
	case ModeTokens:
		return "tokens"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Measure returns the size of content under mode.
func (m Mode) Measure(content string) int {
	if m == ModeTokens {
		return len(strings.Fields(content))
	}
	return len(content)
}

// span is the byte range [start, end) of one token.
type span struct {
	start, end int
}

// tokenSpans returns the byte ranges of the whitespace-delimited tokens of s,
// using the same separator definition as strings.Fields.
func tokenSpans(s string) []span {
	var spans []span
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(s)})
	}
	return spans
}

// split cuts content into consecutive slices of at most capacity units.
// Byte mode cuts at raw byte offsets and may divide a multi-byte rune.
// Token mode cuts at token boundaries; whitespace before the first token
// belongs to the first slice and whitespace after a slice's last token
// belongs to that slice, so the slices concatenate back to content.
func (m Mode) split(content string, capacity int) []string {
	if capacity <= 0 {
		return []string{content}
	}
	if m == ModeTokens {
		return splitTokens(content, capacity)
	}

	var parts []string
	for start := 0; start < len(content); start += capacity {
		end := start + capacity
		if end > len(content) {
			end = len(content)
		}
		parts = append(parts, content[start:end])
	}
	return parts
}

func splitTokens(content string, capacity int) []string {
	spans := tokenSpans(content)
	if len(spans) == 0 {
		return []string{content}
	}

	var parts []string
	from := 0
	for first := 0; first < len(spans); first += capacity {
		next := first + capacity
		to := len(content)
		if next < len(spans) {
			to = spans[next].start
		}
		parts = append(parts, content[from:to])
		from = to
	}
	return parts
}

// validRunes reports whether s is valid UTF-8. Byte-mode parts may not be.
func validRunes(s string) bool {
	return utf8.ValidString(s)
}
