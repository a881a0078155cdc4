package selection

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hightemp/countrypick/internal/countries"
)

func threeCountryCatalog(t *testing.T) *countries.Catalog {
	t.Helper()
	c, err := countries.New([]countries.Record{
		{Code: "FR", Names: map[string]string{"common": "France", "fra": "France"}},
		{Code: "US", Names: map[string]string{"common": "United States", "eng": "United States"}},
		{Code: "DE", Names: map[string]string{"common": "Germany"}},
	}, countries.LoadOptions{})
	require.NoError(t, err)
	return c
}

type recordingScroller struct {
	offsets []int
}

func (r *recordingScroller) ScrollTo(offset int) {
	r.offsets = append(r.offsets, offset)
}

func TestExclude(t *testing.T) {
	codes := []string{"FR", "US", "DE", "GB", "JP"}

	tests := []struct {
		name     string
		excluded []string
		want     []string
	}{
		{"empty", nil, []string{"FR", "US", "DE", "GB", "JP"}},
		{"one", []string{"US"}, []string{"FR", "DE", "GB", "JP"}},
		{"several", []string{"JP", "FR"}, []string{"US", "DE", "GB"}},
		{"lowercase", []string{"de"}, []string{"FR", "US", "GB", "JP"}},
		{"unknown ignored", []string{"XX", "ZZ"}, []string{"FR", "US", "DE", "GB", "JP"}},
		{"all", codes, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Exclude(codes, tc.excluded)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Exclude mismatch (-want +got):\n%s", diff)
			}
			for _, e := range tc.excluded {
				require.NotContains(t, got, strings.ToUpper(e))
			}
		})
	}

	require.Equal(t, []string{"FR", "US", "DE", "GB", "JP"}, codes, "input must not be modified")
}

func TestSearchEmptyQueryReturnsCandidateOrder(t *testing.T) {
	catalog := countries.Default()
	codes := Exclude(catalog.Codes(), []string{"US", "FR"})
	entries := make([]Entry, len(codes))
	for i, code := range codes {
		entries[i] = Entry{Code: code, Name: catalog.Name(code, "deu")}
	}
	idx := NewSearchIndex(entries, DefaultMatchOptions())

	require.Equal(t, codes, idx.Search(""))
	require.Equal(t, len(codes), idx.Len())
}

func TestSearchSoundAndDeterministic(t *testing.T) {
	catalog := countries.Default()
	codes := Exclude(catalog.Codes(), []string{"DE", "AT", "CH"})
	allowed := make(map[string]bool, len(codes))
	entries := make([]Entry, len(codes))
	for i, code := range codes {
		allowed[code] = true
		entries[i] = Entry{Code: code, Name: catalog.Name(code, "eng")}
	}
	idx := NewSearchIndex(entries, DefaultMatchOptions())

	for _, q := range []string{"ger", "united", "isl", "saint", "z", "Côte", "xyzzy", "a b c", "guinea"} {
		first := idx.Search(q)
		second := idx.Search(q)
		require.Equal(t, first, second, "query %q not deterministic", q)

		seen := map[string]bool{}
		for _, code := range first {
			require.True(t, allowed[code], "query %q returned %s outside candidates", q, code)
			require.False(t, seen[code], "query %q returned %s twice", q, code)
			seen[code] = true
		}
	}
}

func TestSearchMatching(t *testing.T) {
	catalog := countries.Default()
	codes := catalog.Codes()
	entries := make([]Entry, len(codes))
	for i, code := range codes {
		entries[i] = Entry{Code: code, Name: catalog.Name(code, "eng")}
	}
	idx := NewSearchIndex(entries, DefaultMatchOptions())

	tests := []struct {
		query string
		first string
	}{
		{"Germany", "DE"},
		{"GERMANY", "DE"},
		{"Germny", "DE"},
		{"swtzerland", "CH"},
		{"japan", "JP"},
		{"new zealand", "NZ"},
	}
	for _, tc := range tests {
		got := idx.Search(tc.query)
		require.NotEmpty(t, got, "query %q", tc.query)
		require.Equal(t, tc.first, got[0], "query %q ranked %v", tc.query, got)
	}
}

func TestSearchUnanchored(t *testing.T) {
	idx := NewSearchIndex([]Entry{
		{Code: "FR", Name: "France"},
		{Code: "US", Name: "United States"},
		{Code: "DE", Name: "Germany"},
	}, DefaultMatchOptions())

	require.Equal(t, []string{"US"}, idx.Search("states"))
	require.Equal(t, []string{}, idx.Search("qqqq"))
}

func TestSearchTruncatesLongQueries(t *testing.T) {
	catalog := countries.Default()
	codes := catalog.Codes()
	entries := make([]Entry, len(codes))
	for i, code := range codes {
		entries[i] = Entry{Code: code, Name: catalog.Name(code, "eng")}
	}
	idx := NewSearchIndex(entries, DefaultMatchOptions())

	long := strings.Repeat("united states ", 4)
	require.Greater(t, len(long), 32)
	require.Equal(t, idx.Search(long[:32]), idx.Search(long))
}

func TestMatcherScores(t *testing.T) {
	opts := DefaultMatchOptions()

	score, ok := newMatcher("germany", opts).match([]rune("germany"))
	require.True(t, ok)
	require.Equal(t, 0.0, score)

	score, ok = newMatcher("ger", opts).match([]rune("germany"))
	require.True(t, ok)
	require.Equal(t, 0.001, score)

	score, ok = newMatcher("ab", opts).match([]rune("xab"))
	require.True(t, ok)
	require.InDelta(t, 0.01, score, 1e-9)

	_, ok = newMatcher("ger", opts).match([]rune("france"))
	require.False(t, ok)

	require.Len(t, newMatcher(strings.Repeat("x", 50), opts).pattern, 32)
}

func TestMatcherMatchBit(t *testing.T) {
	opts := DefaultMatchOptions()

	tests := []struct {
		query    string
		expected uint64
	}{
		{"", 0},
		{"a", 1},
		{"spain", 1 << 4},
		{strings.Repeat("x", 31), 1 << 30},
		{strings.Repeat("x", 32), 1 << 31},
		{strings.Repeat("x", 40), 1 << 31},
	}
	for _, tc := range tests {
		if got := newMatcher(tc.query, opts).matchBit; got != tc.expected {
			t.Errorf("matchBit(%d runes) = %#x, expected %#x", len(tc.query), got, tc.expected)
		}
	}

	// A full-length query is matched as a whole, not by its last 31 runes.
	name := []rune("the united kingdom of great brit")
	require.Len(t, name, 32)
	score, ok := newMatcher(string(name)+"x", opts).match(append(name, []rune("ain")...))
	require.True(t, ok)
	require.Equal(t, 0.001, score)
}

func TestMinMatchCharLength(t *testing.T) {
	opts := DefaultMatchOptions()
	opts.MinMatchCharLength = 3
	idx := NewSearchIndex([]Entry{{Code: "DE", Name: "Germany"}}, opts)

	require.Empty(t, idx.Search("ge"))
	require.Equal(t, []string{"DE"}, idx.Search("ger"))
}

func TestBuildLetterIndexFirstOccurrence(t *testing.T) {
	catalog := countries.Default()
	candidates := catalog.Codes()
	nameOf := func(code string) string { return catalog.Name(code, "fra") }

	li := BuildLetterIndex(candidates, nameOf)
	require.NotEmpty(t, li.Letters)

	for i := 1; i < len(li.Letters); i++ {
		require.Less(t, li.Letters[i-1], li.Letters[i], "letters not sorted")
	}

	for _, letter := range li.Letters {
		pos, ok := li.Position(letter)
		require.True(t, ok)

		want := -1
		for i, code := range candidates {
			if firstLetter(nameOf(code)) == letter {
				want = i
				break
			}
		}
		require.Equal(t, want, pos, "letter %s", letter)
	}

	_, ok := li.Position("1")
	require.False(t, ok)
}

func TestBuildLetterIndexUppercases(t *testing.T) {
	names := map[string]string{"A": "åland", "B": "Belgium", "C": "belize", "D": ""}
	li := BuildLetterIndex([]string{"A", "B", "C", "D"}, func(c string) string { return names[c] })

	require.Equal(t, []string{"B", "Å"}, li.Letters)
	pos, ok := li.Position("b")
	require.True(t, ok)
	require.Equal(t, 1, pos)
}

func TestScrollOffset(t *testing.T) {
	g := Geometry{RowHeight: 10, ViewportHeight: 20}

	tests := []struct {
		position, rows int
		geometry       Geometry
		want           int
	}{
		{0, 3, g, 0},
		{1, 3, g, 10},
		{2, 3, g, 10}, // would scroll past the tail
		{5, 100, g, 50},
		{99, 100, g, 980},
		{2, 3, Geometry{RowHeight: 10, ViewportHeight: 50}, 0}, // content shorter than viewport
	}
	for _, tc := range tests {
		got := ScrollOffset(tc.position, tc.rows, tc.geometry)
		require.Equal(t, tc.want, got, "ScrollOffset(%d, %d, %+v)", tc.position, tc.rows, tc.geometry)

		content := tc.rows * tc.geometry.RowHeight
		if content > tc.geometry.ViewportHeight {
			require.GreaterOrEqual(t, got, 0)
			require.LessOrEqual(t, got, content-tc.geometry.ViewportHeight)
		}
	}
}

func TestSessionScenario(t *testing.T) {
	scroller := &recordingScroller{}
	s := NewSession(threeCountryCatalog(t), WithScroller(scroller), WithGeometry(Geometry{RowHeight: 7, ViewportHeight: 7}))

	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, nil, "eng"))
	require.Equal(t, []string{"FR", "US", "DE"}, s.Candidates())
	require.Equal(t, []string{"FR", "US", "DE"}, s.Results())
	// Letters come from the display name, so DE contributes G.
	require.Equal(t, []string{"F", "G", "U"}, s.Letters())
	require.Equal(t, "", s.FilterText())

	offset, ok := s.ScrollTo("F")
	require.True(t, ok)
	require.Equal(t, 0*7, offset)
	require.Equal(t, []int{0}, scroller.offsets)

	s.SetFilterText("Ger")
	require.Equal(t, []string{"DE"}, s.Results())
	require.False(t, s.LettersVisible())
	require.Nil(t, s.Letters())

	s.SetFilterText("")
	require.Equal(t, []string{"FR", "US", "DE"}, s.Results())
	require.Equal(t, []int{0, 0, 0}, scroller.offsets)
}

func TestSessionExcludedNeverIndexed(t *testing.T) {
	s := NewSession(threeCountryCatalog(t))
	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, []string{"US"}, "eng"))

	require.Equal(t, []string{"FR", "DE"}, s.Candidates())
	require.Empty(t, s.SearchIndex().Search("United"))

	s.SetFilterText("United")
	require.Empty(t, s.Results())
}

func TestSessionSetFilterTextAlwaysResetsScroll(t *testing.T) {
	scroller := &recordingScroller{}
	s := NewSession(threeCountryCatalog(t), WithScroller(scroller))
	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, nil, "eng"))

	for _, text := range []string{"u", "un", "", "zzz", "zzz"} {
		s.SetFilterText(text)
	}
	require.Equal(t, []int{0, 0, 0, 0, 0}, scroller.offsets)
}

func TestSessionScrollToNoop(t *testing.T) {
	scroller := &recordingScroller{}
	s := NewSession(threeCountryCatalog(t), WithScroller(scroller))
	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, nil, "eng"))

	_, ok := s.ScrollTo("Z")
	require.False(t, ok)

	s.SetFilterText("fr")
	_, ok = s.ScrollTo("F")
	require.False(t, ok, "letter navigation is hidden during search")

	require.Equal(t, []int{0}, scroller.offsets, "only the refilter scrolled")
}

func TestSessionScrollToClamps(t *testing.T) {
	s := NewSession(threeCountryCatalog(t))
	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, nil, "eng"))
	s.SetGeometry(Geometry{RowHeight: 10, ViewportHeight: 20})

	offset, ok := s.ScrollTo("G")
	require.True(t, ok)
	require.Equal(t, 10, offset)

	offset, ok = s.ScrollTo("u")
	require.True(t, ok)
	require.Equal(t, 10, offset)
}

func TestSessionSelectCode(t *testing.T) {
	s := NewSession(threeCountryCatalog(t))
	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, nil, "fra"))

	s.SetFilterText("fran")
	res, err := s.SelectCode("fr")
	require.NoError(t, err)
	require.Equal(t, "FR", res.Code)
	require.Equal(t, "France", res.Name)
	require.Equal(t, "fra", res.Locale)
	require.Equal(t, "", s.FilterText())
	require.Equal(t, []string{"FR", "US", "DE"}, s.Results())

	res, err = s.SelectCode("DE")
	require.NoError(t, err)
	require.Equal(t, "Germany", res.Name, "missing locale falls back to common name")

	_, hasFlag := reflect.TypeOf(res).FieldByName("Flag")
	require.False(t, hasFlag)
}

func TestSessionSelectCodeInvalid(t *testing.T) {
	s := NewSession(threeCountryCatalog(t))
	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, []string{"US"}, "eng"))
	s.SetFilterText("ger")

	for _, code := range []string{"US", "XX", ""} {
		_, err := s.SelectCode(code)
		require.True(t, errors.Is(err, ErrInvalidSelection), "SelectCode(%q) = %v", code, err)
		require.Equal(t, "ger", s.FilterText())
		require.Equal(t, []string{"DE"}, s.Results())
	}
}

func TestSessionClose(t *testing.T) {
	s := NewSession(threeCountryCatalog(t))
	require.NoError(t, s.Initialize([]string{"FR", "US", "DE"}, nil, "eng"))

	s.SetFilterText("ger")
	s.Close()
	require.Equal(t, "", s.FilterText())
	require.Equal(t, []string{"FR", "US", "DE"}, s.Results())
	require.True(t, s.LettersVisible())
}

func TestSessionInitialize(t *testing.T) {
	s := NewSession(threeCountryCatalog(t))

	err := s.Initialize([]string{"FR", "XX"}, nil, "eng")
	require.ErrorIs(t, err, ErrUnknownCode)

	require.NoError(t, s.Initialize([]string{"de", "FR", "DE"}, []string{"ZZ"}, ""))
	require.Equal(t, []string{"DE", "FR"}, s.Candidates())
	require.Equal(t, "eng", s.Locale())
	require.NotEmpty(t, s.ID())

	// Reinitializing rebuilds the indexes for the new locale and list.
	s.SetFilterText("fr")
	require.NoError(t, s.Initialize([]string{"US"}, nil, "eng"))
	require.Equal(t, "", s.FilterText())
	require.Equal(t, []string{"U"}, s.Letters())
	require.Empty(t, s.SearchIndex().Search("Germany"))
}

func TestSessionLettersUseResolvedName(t *testing.T) {
	catalog := countries.Default()
	s := NewSession(catalog)
	require.NoError(t, s.Initialize([]string{"DE", "ES", "FR"}, nil, "deu"))

	// Deutschland, Spanien, Frankreich
	require.Equal(t, []string{"D", "F", "S"}, s.Letters())
	offset, ok := s.ScrollTo("S")
	require.True(t, ok)
	require.Equal(t, 1, offset)
}
