package render

import (
	"strings"

	"golang.org/x/image/font"
)

// Ellipsis marks text that was cut to fit.
const Ellipsis = "..."

// TextMeasurer reports the rendered width of a string in pixels.
type TextMeasurer interface {
	Measure(s string) int
}

// FaceMeasurer measures text with a font face.
type FaceMeasurer struct {
	Face font.Face
}

// Measure implements TextMeasurer.
func (m FaceMeasurer) Measure(s string) int {
	return font.MeasureString(m.Face, s).Ceil()
}

// FixedMeasurer gives every rune the same advance. Useful in tests.
type FixedMeasurer struct {
	Advance int
}

// Measure implements TextMeasurer.
func (m FixedMeasurer) Measure(s string) int {
	return m.Advance * len([]rune(s))
}

// Truncate returns s unchanged if it fits in maxW, otherwise the longest
// prefix of s followed by Ellipsis that fits. Returns "" when not even the
// ellipsis fits.
func Truncate(m TextMeasurer, s string, maxW int) string {
	if m.Measure(s) <= maxW {
		return s
	}
	return withEllipsis(m, s, maxW)
}

// Wrap breaks s into lines no wider than maxW, splitting on whitespace.
// Words wider than a line are broken between runes. When maxLines > 0 and
// the text needs more lines, the result is clipped to maxLines and the last
// line ends with Ellipsis.
func Wrap(m TextMeasurer, s string, maxW, maxLines int) []string {
	if maxW <= 0 {
		return nil
	}

	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if m.Measure(candidate) <= maxW {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		for m.Measure(word) > maxW {
			head, rest := splitWidth(m, word, maxW)
			lines = append(lines, head)
			word = rest
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = withEllipsis(m, lines[maxLines-1], maxW)
	}
	return lines
}

func withEllipsis(m TextMeasurer, s string, maxW int) string {
	runes := []rune(s)
	for n := len(runes); n >= 0; n-- {
		head := strings.TrimRight(string(runes[:n]), " ")
		if m.Measure(head+Ellipsis) <= maxW {
			return head + Ellipsis
		}
	}
	return ""
}

// splitWidth returns the longest rune prefix of s that fits in maxW (at least
// one rune, so callers always make progress) and the remainder.
func splitWidth(m TextMeasurer, s string, maxW int) (string, string) {
	runes := []rune(s)
	n := 1
	for n < len(runes) && m.Measure(string(runes[:n+1])) <= maxW {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
