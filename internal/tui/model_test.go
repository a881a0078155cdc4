package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/selection"
)

func newTestModel(t *testing.T, height int) (*Model, *selection.Session) {
	t.Helper()
	opts := DefaultOptions()
	opts.Height = height
	opts.ShowFlags = true
	return newTestModelWith(t, opts)
}

func newTestModelWith(t *testing.T, opts Options) (*Model, *selection.Session) {
	t.Helper()
	c, err := countries.New([]countries.Record{
		{Code: "FR", Names: map[string]string{"common": "France"}},
		{Code: "US", Names: map[string]string{"common": "United States"}},
		{Code: "DE", Names: map[string]string{"common": "Germany"}},
	}, countries.LoadOptions{})
	require.NoError(t, err)

	s := selection.NewSession(c)
	require.NoError(t, s.Initialize(c.Codes(), nil, "eng"))
	return New(s, DefaultStyles(), opts), s
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestTypingFilters(t *testing.T) {
	m, s := newTestModel(t, 5)

	typeText(m, "ger")
	require.Equal(t, "ger", s.FilterText())
	require.Equal(t, []string{"DE"}, s.Results())

	view := m.View()
	require.Contains(t, view, "Germany")
	require.NotContains(t, view, "France")
	require.NotContains(t, view, "alt+letter", "rail hidden while searching")

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "", s.FilterText())
	require.Equal(t, []string{"FR", "US", "DE"}, s.Results())
}

func TestEnterSelects(t *testing.T) {
	m, s := newTestModel(t, 5)
	typeText(m, "united")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, isQuit(cmd))
	require.True(t, m.Done())

	res, ok := m.Outcome()
	require.True(t, ok)
	require.Equal(t, "US", res.Code)
	require.Equal(t, "United States", res.Name)
	require.Equal(t, "", s.FilterText())
}

func TestEnterWithoutResults(t *testing.T) {
	m, _ := newTestModel(t, 5)
	typeText(m, "qqqq")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, isQuit(cmd))
	require.False(t, m.Done())
	require.Contains(t, m.View(), "No matches")
}

func TestEscCancels(t *testing.T) {
	m, s := newTestModel(t, 5)
	typeText(m, "fr")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, isQuit(cmd))

	_, ok := m.Outcome()
	require.False(t, ok)
	require.Equal(t, "", s.FilterText())
}

func TestAltLetterJumps(t *testing.T) {
	m, _ := newTestModel(t, 1)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}, Alt: true})
	require.Equal(t, 1, m.offset)
	require.Equal(t, 1, m.cursor)

	view := m.View()
	require.Contains(t, view, "United States")
	require.NotContains(t, view, "France")

	// Clamped to the last full viewport.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}, Alt: true})
	require.Equal(t, 2, m.offset)
	require.Equal(t, 2, m.cursor)

	// Unknown letter is a no-op.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}, Alt: true})
	require.Equal(t, 2, m.cursor)
}

func TestFilterResetsScroll(t *testing.T) {
	m, _ := newTestModel(t, 1)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.cursor)
	require.Equal(t, 2, m.offset)

	typeText(m, "a")
	require.Equal(t, 0, m.cursor)
	require.Equal(t, 0, m.offset)
}

func TestCursorBounds(t *testing.T) {
	m, _ := newTestModel(t, 5)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, 2, m.cursor)
}

func TestWindowSizeUpdatesGeometry(t *testing.T) {
	m, s := newTestModel(t, 10)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: chromeLines + 2})
	require.Equal(t, 2, m.height)
	require.Equal(t, selection.Geometry{RowHeight: 1, ViewportHeight: 2}, s.Geometry())
}

func TestViewShowsRailAndFlags(t *testing.T) {
	m, _ := newTestModel(t, 5)

	view := m.View()
	require.Contains(t, view, countries.EmojiFlag("FR"))
	for _, l := range []string{"F", "G", "U"} {
		require.Contains(t, view, l)
	}
	require.True(t, strings.Contains(view, "alt+letter"))
}

func TestPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, 5)
	require.Contains(t, m.View(), "Filter")

	opts := DefaultOptions()
	opts.Placeholder = "Type a country"
	m, _ = newTestModelWith(t, opts)
	require.Contains(t, m.View(), "Type a country")
}

func TestNotFilterable(t *testing.T) {
	opts := DefaultOptions()
	opts.Height = 1
	opts.Filterable = false
	m, s := newTestModelWith(t, opts)
	require.Nil(t, m.Init())

	view := m.View()
	require.NotContains(t, view, "Filter")
	require.Contains(t, view, "letter jump")

	// Typing never reaches the filter; plain letters jump instead.
	typeText(m, "u")
	require.Equal(t, "", s.FilterText())
	require.Equal(t, 1, m.cursor)
	require.Equal(t, 1, m.offset)

	typeText(m, "/1")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "", s.FilterText())
	require.True(t, s.LettersVisible())
	require.Equal(t, []string{"F", "G", "U"}, s.Letters())
	require.Contains(t, m.View(), "United States")
}

func TestNotCloseable(t *testing.T) {
	opts := DefaultOptions()
	opts.Closeable = false
	m, _ := newTestModelWith(t, opts)
	require.NotContains(t, m.View(), "esc cancel")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, isQuit(cmd))
	require.False(t, m.Done())

	// ctrl+c still cancels.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, isQuit(cmd))
	_, ok := m.Outcome()
	require.False(t, ok)
}

func TestNoAutoFocus(t *testing.T) {
	opts := DefaultOptions()
	opts.Height = 1
	opts.AutoFocus = false
	m, s := newTestModelWith(t, opts)
	require.Nil(t, m.Init())
	require.Contains(t, m.View(), "/ filter")

	typeText(m, "g")
	require.Equal(t, "", s.FilterText())
	require.Equal(t, 2, m.cursor)

	typeText(m, "/")
	require.True(t, m.input.Focused())
	require.Equal(t, "", s.FilterText())

	typeText(m, "ger")
	require.Equal(t, "ger", s.FilterText())
	require.Equal(t, []string{"DE"}, s.Results())
}

func TestStylesWith(t *testing.T) {
	base := DefaultStyles()
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	custom := base.With(Overrides{Title: &title})
	require.Equal(t, lipgloss.TerminalColor(lipgloss.Color("1")), custom.Title.GetForeground())
	require.Equal(t, lipgloss.TerminalColor(colorAccent), base.Title.GetForeground())
	require.Equal(t, lipgloss.TerminalColor(colorAccent), DefaultStyles().Title.GetForeground())
	require.Equal(t, base.Code.GetForeground(), custom.Code.GetForeground())
}
