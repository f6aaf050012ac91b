// Package tui is a terminal browser for the medicine catalog. It drives
// the same catalog.View as the HTTP endpoint from keyboard input.
package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/UTarts/cardiff-healthcare/internal/catalog"
)

// loadedMsg carries the catalog fetch back to the update loop.
type loadedMsg struct {
	res catalog.FetchResult
}

// Model is the bubbletea model of the catalog browser.
type Model struct {
	ctx  context.Context
	src  catalog.ProductLister
	view *catalog.View

	search        textinput.Model
	searchFocused bool
	spinner       spinner.Model

	// cursor indexes the visible cards.
	cursor  int
	width   int
	height  int
	handoff *catalog.Handoff

	styles Styles
}

// New creates a browser over src. directive may be nil.
func New(ctx context.Context, src catalog.ProductLister, engine *catalog.Engine, directive *catalog.Directive, opts ...catalog.Option) Model {
	si := textinput.New()
	si.Placeholder = "Search by name, use or composition..."
	si.Prompt = "Search: "
	si.CharLimit = 80
	si.Width = 40

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:     ctx,
		src:     src,
		view:    catalog.NewView(engine, directive, opts...),
		search:  si,
		spinner: sp,
		width:   100,
		height:  30,
		styles:  DefaultStyles(),
	}
}

// Init starts the catalog fetch.
func (m Model) Init() tea.Cmd {
	if !m.view.BeginLoad() {
		return nil
	}
	return tea.Batch(m.fetch, m.spinner.Tick)
}

func (m Model) fetch() tea.Msg {
	return loadedMsg{res: catalog.Fetch(m.ctx, m.src)}
}

// Handoff returns the contact hand-off chosen before the program quit.
func (m Model) Handoff() (catalog.Handoff, bool) {
	if m.handoff == nil {
		return catalog.Handoff{}, false
	}
	return *m.handoff, true
}

// Snapshot exposes the rendered catalog state.
func (m Model) Snapshot() catalog.Snapshot {
	return m.view.Snapshot()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.view.Apply(m.ctx, msg.res)
		m.clampCursor()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.view.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.view.Unmount()
			return m, tea.Quit
		}
		switch {
		case m.searchFocused:
			return m.updateSearch(msg)
		case m.view.Viewer().IsOpen():
			return m.updateLightbox(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateLightbox(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx, _ := m.view.Viewer().Index()

	switch msg.String() {
	case "esc", "q", "backspace":
		m.view.Close()
	case "left", "h":
		m.view.SelectImage(idx - 1)
	case "right", "l":
		m.view.SelectImage(idx + 1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.view.SelectImage(int(msg.Runes[0] - '1'))
	case "i":
		if h, ok := m.view.Inquire(); ok {
			m.handoff = &h
			m.view.Unmount()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.columns()

	switch msg.String() {
	case "q", "esc":
		m.view.Unmount()
		return m, tea.Quit
	case "/":
		m.searchFocused = true
		return m, m.search.Focus()
	case "tab":
		m.cycleCategory(1)
	case "shift+tab":
		m.cycleCategory(-1)
	case "s":
		m.view.ToggleSort()
	case "left", "h":
		m.cursor--
	case "right", "l":
		m.cursor++
	case "up", "k":
		m.cursor -= cols
	case "down", "j":
		m.cursor += cols
	case "enter", " ":
		visible := m.view.Visible()
		if m.cursor >= 0 && m.cursor < len(visible) {
			m.view.Select(visible[m.cursor].ID)
		}
	}
	m.clampCursor()
	return m, nil
}

// cycleCategory moves to the next or previous category chip.
func (m *Model) cycleCategory(step int) {
	categories := m.view.Categories()
	if len(categories) == 0 {
		return
	}
	i := slices.Index(categories, m.view.Criteria().Category)
	i = (i + step + len(categories)) % len(categories)
	m.view.SetCategory(categories[i])
	m.cursor = 0
}

func (m *Model) clampCursor() {
	n := len(m.view.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// columns is the number of cards per grid row at the current width.
func (m Model) columns() int {
	return max(1, m.width/cardWidth)
}
