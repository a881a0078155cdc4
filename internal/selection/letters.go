package selection

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// LetterIndex maps each jump letter to the first candidate position whose
// display name starts with it.
type LetterIndex struct {
	// Letters is the navigable alphabet, sorted ordinally.
	Letters   []string
	positions map[string]int
}

// BuildLetterIndex groups candidates by the upper-cased first rune of
// nameOf(code). The first occurrence of a letter wins.
func BuildLetterIndex(candidates []string, nameOf func(code string) string) LetterIndex {
	positions := make(map[string]int)
	for i, code := range candidates {
		letter := firstLetter(nameOf(code))
		if letter == "" {
			continue
		}
		if _, seen := positions[letter]; !seen {
			positions[letter] = i
		}
	}

	letters := make([]string, 0, len(positions))
	for letter := range positions {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	return LetterIndex{Letters: letters, positions: positions}
}

// Position returns the candidate position for letter.
func (li LetterIndex) Position(letter string) (int, bool) {
	pos, ok := li.positions[firstLetter(letter)]
	return pos, ok
}

func firstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Geometry describes the rendering layer's list: the height of one row and
// of the visible viewport, in the same unit (pixels, terminal lines).
type Geometry struct {
	RowHeight      int
	ViewportHeight int
}

// ScrollOffset converts a row position into a scroll offset for a list of
// rows entries. The offset never scrolls past the last full viewport and is
// never negative.
func ScrollOffset(position, rows int, g Geometry) int {
	offset := position * g.RowHeight
	if maxOffset := rows*g.RowHeight - g.ViewportHeight; offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
