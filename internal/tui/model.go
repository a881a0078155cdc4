// Package tui is the terminal country picker. The model renders a
// selection.Session and receives its scroll callbacks.
package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hightemp/countrypick/internal/selection"
)

// chromeLines is the height taken by everything except the list.
const chromeLines = 6

// Options configures a Model. Start from DefaultOptions: the zero value
// has filtering and closing turned off.
type Options struct {
	Title string
	// Height is the list height in rows.
	Height int
	// RowHeight is the height of one row in terminal lines.
	RowHeight int
	ShowFlags bool

	// Filterable shows the filter input. Without it typing is ignored,
	// plain letters jump and the letter rail is always shown.
	Filterable  bool
	Placeholder string
	// AutoFocus focuses the filter input on start. When off, "/" focuses it.
	AutoFocus bool
	// Closeable lets esc cancel the picker. ctrl+c always does.
	Closeable bool
}

// DefaultOptions returns a filterable, closeable picker.
func DefaultOptions() Options {
	return Options{
		Title:       "Select a country",
		Height:      10,
		RowHeight:   1,
		Filterable:  true,
		Placeholder: "Filter",
		AutoFocus:   true,
		Closeable:   true,
	}
}

// Model is a bubbletea model driving a selection session.
type Model struct {
	session *selection.Session
	styles  Styles
	opts    Options
	input   textinput.Model

	height    int // visible rows
	rowHeight int
	cursor    int
	offset    int // first visible row

	done     bool
	selected bool
	result   selection.Result
}

// New creates a picker over session and registers it as the session's
// scroller. The session must already be initialized.
func New(session *selection.Session, styles Styles, opts Options) *Model {
	if opts.Height < 1 {
		opts.Height = 10
	}
	if opts.RowHeight < 1 {
		opts.RowHeight = 1
	}
	if opts.Title == "" {
		opts.Title = "Select a country"
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "Filter"
	}

	input := textinput.New()
	input.Placeholder = opts.Placeholder
	input.Prompt = "/ "
	input.PromptStyle = styles.Prompt
	if opts.Filterable && opts.AutoFocus {
		input.Focus()
	}

	m := &Model{
		session:   session,
		styles:    styles,
		opts:      opts,
		input:     input,
		height:    opts.Height,
		rowHeight: opts.RowHeight,
	}
	session.SetScroller(m)
	m.syncGeometry()
	return m
}

// ScrollTo moves the viewport so that offset (in lines) is at the top.
func (m *Model) ScrollTo(offset int) {
	m.offset = offset / m.rowHeight
	m.cursor = m.offset
}

// Outcome returns the selection made before the program quit.
func (m *Model) Outcome() (selection.Result, bool) {
	return m.result, m.selected
}

// Done reports whether the picker finished.
func (m *Model) Done() bool {
	return m.done
}

// filtering reports whether typed text goes to the filter input.
func (m *Model) filtering() bool {
	return m.opts.Filterable && m.input.Focused()
}

func (m *Model) Init() tea.Cmd {
	if m.filtering() {
		return textinput.Blink
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rows := max(1, (msg.Height-chromeLines)/m.rowHeight)
		m.height = min(rows, m.opts.Height)
		m.input.Width = max(10, msg.Width-4)
		m.syncGeometry()
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		if m.done {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, m.cancel()
		case "esc":
			if !m.opts.Closeable {
				return m, nil
			}
			return m, m.cancel()
		case "enter":
			return m, m.selectCurrent()
		case "up", "ctrl+p":
			m.moveCursor(-1)
			return m, nil
		case "down", "ctrl+n":
			m.moveCursor(1)
			return m, nil
		case "pgup":
			m.moveCursor(-m.height)
			return m, nil
		case "pgdown":
			m.moveCursor(m.height)
			return m, nil
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && unicode.IsLetter(msg.Runes[0]) && (msg.Alt || !m.filtering()) {
			m.jump(string(msg.Runes[0]))
			return m, nil
		}
		if !m.filtering() {
			if m.opts.Filterable && msg.String() == "/" {
				return m, m.input.Focus()
			}
			return m, nil
		}
	}

	if !m.opts.Filterable {
		return m, nil
	}
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.SetFilterText(after)
	}
	return m, cmd
}

func (m *Model) cancel() tea.Cmd {
	m.session.Close()
	m.done = true
	return tea.Quit
}

func (m *Model) selectCurrent() tea.Cmd {
	results := m.session.Results()
	if len(results) == 0 {
		return nil
	}
	res, err := m.session.SelectCode(results[m.cursor])
	if err != nil {
		return nil
	}
	m.result = res
	m.selected = true
	m.done = true
	return tea.Quit
}

func (m *Model) jump(letter string) {
	pos, ok := m.session.LetterIndex().Position(letter)
	if !ok {
		return
	}
	if _, ok := m.session.ScrollTo(letter); ok {
		m.cursor = pos
	}
}

func (m *Model) moveCursor(delta int) {
	n := len(m.session.Results())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *Model) syncGeometry() {
	m.session.SetGeometry(selection.Geometry{
		RowHeight:      m.rowHeight,
		ViewportHeight: m.height * m.rowHeight,
	})
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.opts.Title))
	b.WriteString("\n")
	if m.opts.Filterable {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	results := m.session.Results()
	if len(results) == 0 {
		b.WriteString(m.styles.Empty.Render("No matches"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.height, len(results))
	for i := m.offset; i < end; i++ {
		code := results[i]
		label := m.session.Name(code)
		if m.opts.ShowFlags {
			if flag := m.session.Flag(code); flag != "" {
				label = flag + " " + label
			}
		}
		label += " " + m.styles.Code.Render(code)

		style := m.styles.Row
		if i == m.cursor {
			style = m.styles.Cursor
			label = "> " + label
		}
		b.WriteString(style.Height(m.rowHeight).Render(label))
		b.WriteString("\n")
	}

	if letters := m.session.Letters(); len(letters) > 0 {
		rail := make([]string, len(letters))
		for i, l := range letters {
			rail[i] = m.styles.RailItem.Render(l)
		}
		b.WriteString(m.styles.Rail.Render(strings.Join(rail, " ")))
		b.WriteString("\n")
	}

	help := fmt.Sprintf("%d of %d  enter select", len(results), len(m.session.Candidates()))
	if m.opts.Closeable {
		help += "  esc cancel"
	}
	if m.opts.Filterable && !m.input.Focused() {
		help += "  / filter"
	}
	if m.session.LettersVisible() {
		if m.filtering() {
			help += "  alt+letter jump"
		} else {
			help += "  letter jump"
		}
	}
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}
