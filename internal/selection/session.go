package selection

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/locale"
)

// Scroller is the rendering layer's scroll mechanism.
type Scroller interface {
	ScrollTo(offset int)
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(offset int)

// ScrollTo calls f(offset).
func (f ScrollerFunc) ScrollTo(offset int) { f(offset) }

type noopScroller struct{}

func (noopScroller) ScrollTo(int) {}

// Result is what a selection hands back to the caller. It deliberately
// carries no flag reference; the rendering layer resolves flags itself.
type Result struct {
	Code   string
	Name   string
	Locale string
	Names  map[string]string
}

// Option configures a Session.
type Option func(*Session)

// WithScroller sets the scroller notified on refilter and letter jumps.
func WithScroller(s Scroller) Option {
	return func(sess *Session) {
		if s != nil {
			sess.scroller = s
		}
	}
}

// WithGeometry sets the initial list geometry.
func WithGeometry(g Geometry) Option {
	return func(sess *Session) { sess.geometry = g }
}

// WithMatchOptions overrides DefaultMatchOptions.
func WithMatchOptions(o MatchOptions) Option {
	return func(sess *Session) { sess.matchOpts = o }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(sess *Session) {
		if l != nil {
			sess.logger = l
		}
	}
}

// Session holds one picker's state: candidates, filter text and results.
type Session struct {
	id        string
	catalog   *countries.Catalog
	scroller  Scroller
	geometry  Geometry
	matchOpts MatchOptions
	logger    *slog.Logger

	locale     string
	excluded   []string
	candidates []string
	member     map[string]struct{}
	filterText string
	results    []string
	search     *SearchIndex
	letters    LetterIndex
}

// NewSession creates an empty session over catalog. Call Initialize before use.
func NewSession(catalog *countries.Catalog, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		catalog:   catalog,
		scroller:  noopScroller{},
		geometry:  Geometry{RowHeight: 1},
		matchOpts: DefaultMatchOptions(),
		logger:    slog.New(slog.DiscardHandler),
		locale:    locale.Default,
		member:    map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)
	s.search = NewSearchIndex(nil, s.matchOpts)
	return s
}

// Initialize derives the candidate list from codes minus excluded, rebuilds
// both indexes for loc and clears any active search. Duplicate codes keep
// their first position. A code absent from the catalog is an error.
func (s *Session) Initialize(codes []string, excluded []string, loc string) error {
	seen := make(map[string]struct{}, len(codes))
	ordered := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !s.catalog.Has(code) {
			return fmt.Errorf("%w: %s", ErrUnknownCode, code)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		ordered = append(ordered, code)
	}

	if loc == "" {
		loc = locale.Default
	}
	s.locale = loc
	s.excluded = append([]string(nil), excluded...)
	s.candidates = Exclude(ordered, excluded)

	s.member = make(map[string]struct{}, len(s.candidates))
	entries := make([]Entry, len(s.candidates))
	for i, code := range s.candidates {
		s.member[code] = struct{}{}
		entries[i] = Entry{Code: code, Name: s.Name(code)}
	}
	s.search = NewSearchIndex(entries, s.matchOpts)
	s.letters = BuildLetterIndex(s.candidates, s.Name)
	s.reset()

	s.logger.Debug("session initialized",
		"locale", s.locale,
		"candidates", len(s.candidates),
		"excluded", len(excluded),
		"letters", len(s.letters.Letters))
	return nil
}

// SetFilterText replaces the filter and recomputes the results. The result
// view is always scrolled back to the top.
func (s *Session) SetFilterText(text string) {
	s.filterText = text
	if text == "" {
		s.results = s.candidates
	} else {
		s.results = s.search.Search(text)
	}
	s.scroller.ScrollTo(0)
}

// SelectCode selects a candidate and clears the search. Codes outside the
// candidate list fail with ErrInvalidSelection and leave the session as is.
func (s *Session) SelectCode(code string) (Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := s.member[code]; !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidSelection, code)
	}
	record, _ := s.catalog.Get(code)

	s.reset()
	s.logger.Debug("country selected", "code", code)

	return Result{
		Code:   record.Code,
		Name:   record.Name(s.locale),
		Locale: s.locale,
		Names:  maps.Clone(record.Names),
	}, nil
}

// Close clears the search without selecting anything.
func (s *Session) Close() {
	s.reset()
	s.logger.Debug("session closed")
}

// ScrollTo jumps to the first candidate under letter. It is a no-op while a
// search is active or when no candidate starts with letter.
func (s *Session) ScrollTo(letter string) (int, bool) {
	if s.filterText != "" {
		return 0, false
	}
	pos, ok := s.letters.Position(letter)
	if !ok {
		return 0, false
	}
	offset := ScrollOffset(pos, len(s.results), s.geometry)
	s.scroller.ScrollTo(offset)
	return offset, true
}

// SetScroller replaces the scroller. A nil scroller disables scroll callbacks.
func (s *Session) SetScroller(sc Scroller) {
	if sc == nil {
		sc = noopScroller{}
	}
	s.scroller = sc
}

// SetGeometry records the rendering layer's row and viewport heights.
func (s *Session) SetGeometry(g Geometry) {
	s.geometry = g
}

func (s *Session) reset() {
	s.filterText = ""
	s.results = s.candidates
}

// ID returns the session id used in log records.
func (s *Session) ID() string { return s.id }

// Locale returns the active locale key.
func (s *Session) Locale() string { return s.locale }

// FilterText returns the current filter text.
func (s *Session) FilterText() string { return s.filterText }

// Name returns the display name of code in the session locale.
func (s *Session) Name(code string) string {
	return s.catalog.Name(code, s.locale)
}

// Flag returns the catalog flag reference for code.
func (s *Session) Flag(code string) string {
	if r, ok := s.catalog.Get(code); ok {
		return r.Flag
	}
	return ""
}

// Candidates returns the candidate list in catalog order.
func (s *Session) Candidates() []string {
	return append([]string(nil), s.candidates...)
}

// Results returns the codes to render, in display order.
func (s *Session) Results() []string {
	return append([]string(nil), s.results...)
}

// LettersVisible reports whether letter navigation is available.
func (s *Session) LettersVisible() bool {
	return s.filterText == ""
}

// Letters returns the jump alphabet, or nil while a search is active.
func (s *Session) Letters() []string {
	if !s.LettersVisible() {
		return nil
	}
	return append([]string(nil), s.letters.Letters...)
}

// LetterIndex returns the letter index built for the candidates.
func (s *Session) LetterIndex() LetterIndex {
	return s.letters
}

// SearchIndex returns the search index built for the candidates.
func (s *Session) SearchIndex() *SearchIndex {
	return s.search
}

// Geometry returns the current list geometry.
func (s *Session) Geometry() Geometry {
	return s.geometry
}
