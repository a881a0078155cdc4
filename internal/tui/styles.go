package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorMuted  = lipgloss.Color("#7A7A7A")
	colorText   = lipgloss.Color("#E6E6E6")
	colorWarn   = lipgloss.Color("#E0AF68")
)

// Styles is the picker's look. It is a plain value: copying it and calling
// With never affects another picker.
type Styles struct {
	Title    lipgloss.Style
	Prompt   lipgloss.Style
	Row      lipgloss.Style
	Cursor   lipgloss.Style
	Code     lipgloss.Style
	Rail     lipgloss.Style
	RailItem lipgloss.Style
	Empty    lipgloss.Style
	Help     lipgloss.Style
}

// Overrides replaces individual styles. Nil fields keep the base style.
type Overrides struct {
	Title    *lipgloss.Style
	Prompt   *lipgloss.Style
	Row      *lipgloss.Style
	Cursor   *lipgloss.Style
	Code     *lipgloss.Style
	Rail     *lipgloss.Style
	RailItem *lipgloss.Style
	Empty    *lipgloss.Style
	Help     *lipgloss.Style
}

// DefaultStyles returns the built-in look.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1),
		Prompt:   lipgloss.NewStyle().Foreground(colorAccent),
		Row:      lipgloss.NewStyle().Foreground(colorText).PaddingLeft(2),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Code:     lipgloss.NewStyle().Foreground(colorMuted),
		Rail:     lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(2),
		RailItem: lipgloss.NewStyle().Foreground(colorAccent),
		Empty:    lipgloss.NewStyle().Foreground(colorWarn).PaddingLeft(2),
		Help:     lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}

// With returns a copy of s with the non-nil overrides applied.
func (s Styles) With(o Overrides) Styles {
	apply := func(dst *lipgloss.Style, src *lipgloss.Style) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&s.Title, o.Title)
	apply(&s.Prompt, o.Prompt)
	apply(&s.Row, o.Row)
	apply(&s.Cursor, o.Cursor)
	apply(&s.Code, o.Code)
	apply(&s.Rail, o.Rail)
	apply(&s.RailItem, o.RailItem)
	apply(&s.Empty, o.Empty)
	apply(&s.Help, o.Help)
	return s
}
