package countries

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to n codes whose code or common name is closest to input.
// Candidates further than half the input length (minimum 1) are dropped.
func (c *Catalog) Suggest(input string, n int) []string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" || n <= 0 {
		return nil
	}
	limit := max(1, utf8.RuneCountInString(in)/2)

	type candidate struct {
		code string
		dist int
	}
	var found []candidate
	for _, code := range c.codes {
		d := levenshtein.ComputeDistance(in, strings.ToLower(code))
		name := strings.ToLower(c.records[code].Names[CommonName])
		if nd := levenshtein.ComputeDistance(in, name); nd < d {
			d = nd
		}
		if d <= limit {
			found = append(found, candidate{code: code, dist: d})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].dist < found[j].dist
	})

	if len(found) > n {
		found = found[:n]
	}
	result := make([]string, len(found))
	for i, f := range found {
		result[i] = f.code
	}
	return result
}
