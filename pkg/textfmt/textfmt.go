package textfmt

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// Len returns the number of user-perceived characters in s.
func Len(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Truncate shortens text to at most maxLength characters.
//
// Text that already fits is returned unchanged. Longer text keeps its first
// maxLength-1 characters followed by [Ellipsis], so the result is exactly
// maxLength characters long. A non-positive maxLength is not a meaningful
// budget; the text is returned as is.
//
// The ellipsis always stands as a character of its own. When the last kept
// character would absorb it (a prepended mark such as U+0600 ARABIC NUMBER
// SIGN), that character is dropped too and the result is one shorter.
func Truncate(text string, maxLength int) string {
	if text == "" || maxLength <= 0 || Len(text) <= maxLength {
		return text
	}

	kept := make([]string, 0, maxLength-1)
	rest, state := text, -1
	for len(kept) < maxLength-1 && rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		kept = append(kept, cluster)
	}

	for {
		out := strings.Join(kept, "") + Ellipsis
		if len(kept) == 0 || Len(out) == len(kept)+1 {
			return out
		}
		kept = kept[:len(kept)-1]
	}
}

// WrapByWords breaks text into lines of at most maxWidth characters.
//
// Words are separated by runs of whitespace and placed greedily: a word joins
// the current line unless that would push the line past maxWidth, in which
// case the line is emitted and the word starts the next one. A single word
// longer than maxWidth occupies a line of its own and is never split.
// Lines are joined with "\n", the line separator vis-network understands.
func WrapByWords(text string, maxWidth int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var (
		lines   []string
		line    strings.Builder
		lineLen int
	)
	for _, w := range words {
		wl := Len(w)
		if lineLen > 0 && lineLen+1+wl > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(w)
		lineLen += wl
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
