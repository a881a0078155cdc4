package selection

import "sort"

// Entry pairs a candidate code with its resolved display name.
type Entry struct {
	Code string
	Name string
}

type indexedEntry struct {
	Entry
	folded []rune
}

// SearchIndex ranks candidates by approximate match of their display names.
// It is immutable once built.
type SearchIndex struct {
	entries []indexedEntry
	opts    MatchOptions
}

// NewSearchIndex builds an index over entries, keeping their order as the
// tie-break for equally scored matches.
func NewSearchIndex(entries []Entry, opts MatchOptions) *SearchIndex {
	idx := &SearchIndex{
		entries: make([]indexedEntry, len(entries)),
		opts:    opts,
	}
	for i, e := range entries {
		idx.entries[i] = indexedEntry{Entry: e, folded: []rune(normalize(e.Name))}
	}
	return idx
}

// Len returns the number of indexed entries.
func (idx *SearchIndex) Len() int {
	return len(idx.entries)
}

// Entries returns the indexed entries in candidate order.
func (idx *SearchIndex) Entries() []Entry {
	result := make([]Entry, len(idx.entries))
	for i, e := range idx.entries {
		result[i] = e.Entry
	}
	return result
}

// Search returns matching codes, best match first. The empty query returns
// every entry in candidate order without running the matcher.
func (idx *SearchIndex) Search(query string) []string {
	if query == "" {
		result := make([]string, len(idx.entries))
		for i, e := range idx.entries {
			result[i] = e.Code
		}
		return result
	}

	m := newMatcher(query, idx.opts)
	if len(m.pattern) == 0 || len(m.pattern) < idx.opts.MinMatchCharLength {
		return []string{}
	}

	type hit struct {
		code  string
		score float64
	}
	var hits []hit
	for _, e := range idx.entries {
		if score, ok := m.match(e.folded); ok {
			hits = append(hits, hit{code: e.Code, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score < hits[j].score
	})

	result := make([]string, len(hits))
	for i, h := range hits {
		result[i] = h.code
	}
	return result
}
