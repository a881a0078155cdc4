package selection

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxPatternBits is the widest pattern the bit-parallel matcher can track.
const maxPatternBits = 64

// MatchOptions tunes the approximate matcher. The defaults are part of the
// search contract; changing them changes which names match.
type MatchOptions struct {
	// Threshold is the worst score still counted as a match (0 exact, 1 anything).
	Threshold float64
	// Location is where in the name a match is expected to start.
	Location int
	// Distance is how many characters away from Location a match may drift
	// before the proximity penalty alone reaches 1.
	Distance int
	// MaxPatternLength caps the query; longer queries are truncated.
	MaxPatternLength int
	// MinMatchCharLength is the shortest query that can match anything.
	MinMatchCharLength int
}

// DefaultMatchOptions returns threshold 0.6, location 0, distance 100,
// pattern cap 32 and minimum match length 1.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Threshold:          0.6,
		Location:           0,
		Distance:           100,
		MaxPatternLength:   32,
		MinMatchCharLength: 1,
	}
}

func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// matcher is a bitap matcher for one query. It tolerates insertions,
// deletions and substitutions and scores each alignment by its error rate
// plus its distance from the expected location.
type matcher struct {
	opts     MatchOptions
	pattern  []rune
	alphabet map[rune]uint64
	// matchBit marks a complete alignment of the whole pattern. Scorers
	// limited to 32-bit signed ints cap it at 1<<30 and then accept
	// 32-rune patterns once their last 31 runes align; the 64-bit
	// state here has no such cap.
	matchBit uint64
}

func newMatcher(query string, opts MatchOptions) *matcher {
	pattern := []rune(normalize(query))
	limit := opts.MaxPatternLength
	if limit <= 0 || limit > maxPatternBits {
		limit = maxPatternBits
	}
	if len(pattern) > limit {
		pattern = pattern[:limit]
	}

	alphabet := make(map[rune]uint64, len(pattern))
	for i, r := range pattern {
		alphabet[r] |= 1 << (len(pattern) - i - 1)
	}

	m := &matcher{opts: opts, pattern: pattern, alphabet: alphabet}
	if len(pattern) > 0 {
		m.matchBit = uint64(1) << (len(pattern) - 1)
	}
	return m
}

func (m *matcher) score(errors, location int) float64 {
	accuracy := float64(errors) / float64(len(m.pattern))
	proximity := m.opts.Location - location
	if proximity < 0 {
		proximity = -proximity
	}
	if m.opts.Distance == 0 {
		if proximity != 0 {
			return 1
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(m.opts.Distance)
}

// match scores text against the pattern. ok is false when no alignment
// scores within the threshold.
func (m *matcher) match(text []rune) (score float64, ok bool) {
	pattern := m.pattern
	patLen, textLen := len(pattern), len(text)
	if patLen == 0 {
		return 1, false
	}
	if runesEqual(text, pattern) {
		return 0, true
	}

	loc := m.opts.Location
	threshold := m.opts.Threshold

	// An exact occurrence tightens the threshold before the fuzzy pass.
	if i := indexRunes(text, pattern, loc); i != -1 {
		threshold = math.Min(m.score(0, i), threshold)
		if i = lastIndexRunes(text, pattern, loc+patLen); i != -1 {
			threshold = math.Min(m.score(0, i), threshold)
		}
	}

	best := -1
	finalScore := 1.0
	binMax := patLen + textLen
	mask := m.matchBit
	var last []uint64

	for errs := 0; errs < patLen; errs++ {
		// Binary search for how far from loc a match with errs errors may sit.
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if m.score(errs, loc+binMid) <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, loc-binMid+1)
		finish := min(loc+binMid, textLen) + patLen

		bits := make([]uint64, finish+2)
		bits[finish+1] = (uint64(1) << errs) - 1

		for j := finish; j >= start; j-- {
			current := j - 1
			var charMatch uint64
			if current < textLen {
				charMatch = m.alphabet[text[current]]
			}

			bits[j] = ((bits[j+1] << 1) | 1) & charMatch
			if errs != 0 {
				bits[j] |= ((at(last, j+1) | at(last, j)) << 1) | 1 | at(last, j+1)
			}

			if bits[j]&mask != 0 {
				finalScore = m.score(errs, current)
				if finalScore <= threshold {
					threshold = finalScore
					best = current
					if best <= loc {
						break
					}
					start = max(1, 2*loc-best)
				}
			}
		}

		// One more error cannot beat the current best.
		if m.score(errs+1, loc) > threshold {
			break
		}
		last = bits
	}

	if best < 0 {
		return finalScore, false
	}
	if finalScore == 0 {
		finalScore = 0.001
	}
	return finalScore, true
}

func at(bits []uint64, i int) uint64 {
	if i < 0 || i >= len(bits) {
		return 0
	}
	return bits[i]
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// indexRunes returns the first occurrence of sub in s at or after from.
func indexRunes(s, sub []rune, from int) int {
	for i := max(0, from); i+len(sub) <= len(s); i++ {
		if runesEqual(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// lastIndexRunes returns the last occurrence of sub in s at or before from.
func lastIndexRunes(s, sub []rune, from int) int {
	for i := min(from, len(s)-len(sub)); i >= 0; i-- {
		if runesEqual(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
