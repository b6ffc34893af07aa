package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/basicfont"

	"github.com/roach88/pngcard/internal/testutil"
)

const ariaBackstory = "Aria grew up in the salt towers of the northern coast, where the " +
	"lighthouse keepers taught her to read the tides before she could read " +
	"letters. She wanders now with a satchel of half-finished maps, trading" +
	" stories for passage and refusing every offer of a permanent home. " +
	"Travellers who share her fire learn that she never sleeps on nights " +
	"when the beacon is dark, and that she keeps one map she will not show " +
	"anyone, no matter how much coin or wine is offered for a single look " +
	"at it."

func TestFixedMeasurer(t *testing.T) {
	m := FixedMeasurer{Advance: 3}
	assert.Equal(t, 0, m.Measure(""))
	assert.Equal(t, 9, m.Measure("abc"))
	assert.Equal(t, 6, m.Measure("\u00e9\u00e8"), "runes, not bytes")
}

func TestFaceMeasurer_Basicfont(t *testing.T) {
	m := FaceMeasurer{Face: basicfont.Face7x13}
	assert.Equal(t, 0, m.Measure(""))
	assert.Equal(t, 7, m.Measure("W"))
	assert.Equal(t, 28, m.Measure("Aria"))
}

func TestTruncate(t *testing.T) {
	m := FixedMeasurer{Advance: 1}

	tests := []struct {
		name string
		in   string
		maxW int
		want string
	}{
		{"fits", "Aria", 10, "Aria"},
		{"exact", "Aria", 4, "Aria"},
		{"cut", "Hello World", 8, "Hello..."},
		{"trailing space trimmed", "ab cdef", 6, "ab..."},
		{"only ellipsis", "abcdef", 3, "..."},
		{"nothing fits", "abcdef", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(m, tt.in, tt.maxW)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, m.Measure(got), tt.maxW)
		})
	}
}

func TestWrap(t *testing.T) {
	m := FixedMeasurer{Advance: 1}

	tests := []struct {
		name     string
		in       string
		maxW     int
		maxLines int
		want     []string
	}{
		{"empty", "", 10, 0, nil},
		{"whitespace only", "  \n\t ", 10, 0, nil},
		{"single line", "a wandering mage", 20, 0, []string{"a wandering mage"}},
		{"greedy", "the quick brown fox jumps", 10, 0, []string{"the quick", "brown fox", "jumps"}},
		{"collapses whitespace", "one\n\ntwo   three", 20, 0, []string{"one two three"}},
		{"long word broken", "abcdefghijkl", 5, 0, []string{"abcde", "fghij", "kl"}},
		{"long word after text", "hi abcdefg", 4, 0, []string{"hi", "abcd", "efg"}},
		{"clipped", "the quick brown fox jumps", 10, 2, []string{"the quick", "brown f..."}},
		{"clip not needed", "the quick brown fox jumps", 10, 3, []string{"the quick", "brown fox", "jumps"}},
		{"zero width", "anything", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(m, tt.in, tt.maxW, tt.maxLines)
			assert.Equal(t, tt.want, got)
			for _, line := range got {
				assert.LessOrEqual(t, m.Measure(line), tt.maxW, "line %q", line)
			}
		})
	}
}

func TestWrap_PlaceholderDescriptionGolden(t *testing.T) {
	m := FaceMeasurer{Face: basicfont.Face7x13}
	lines := Wrap(m, ariaBackstory, DefaultWidth-2*margin, MaxDescriptionLines)

	assert.Len(t, lines, MaxDescriptionLines)
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], Ellipsis))
	testutil.AssertGolden(t, "placeholder_description", []byte(strings.Join(lines, "\n")))
}
