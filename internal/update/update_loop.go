package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

// Init reports how many todos were loaded.
func (m Model) Init() tea.Cmd {
	text := fmt.Sprintf("%d todos loaded", m.store.Counts().Total)
	return func() tea.Msg { return SetStatusMsg{Text: text} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		prev := m.Status
		var cmd tea.Cmd
		switch m.Mode {
		case ModeAdd, ModeEdit:
			m = m.handleFormKey(typed)
		case ModeSearch:
			m = m.handleSearchKey(typed)
		case ModePalette:
			m = m.handlePaletteKey(typed)
		case ModeDrag:
			m = m.handleDragKey(typed)
		default:
			m, cmd = m.handleListKey(typed)
		}
		if m.Status != prev {
			return m, tea.Batch(cmd, m.expireStatus())
		}
		return m, cmd
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, m.expireStatus()
	case ClearStatusMsg:
		if typed.seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	}
	return m, nil
}

// expireStatus schedules the current status to clear after statusTTL.
// Errors stay until something replaces them.
func (m *Model) expireStatus() tea.Cmd {
	m.statusSeq++
	if m.Status.IsError || m.Status.Text == "" {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{seq: seq} })
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.MoveUp):
		m.moveSelected(-1)
	case key.Matches(msg, k.MoveDown):
		m.moveSelected(1)
	case key.Matches(msg, k.Add):
		m.openForm(ModeAdd, model.Item{})
	case key.Matches(msg, k.Edit):
		if item, ok := m.selectedItem(); ok {
			m.openForm(ModeEdit, item)
		}
	case key.Matches(msg, k.Toggle):
		m.toggleSelected()
	case key.Matches(msg, k.Delete):
		m.deleteSelected()
	case key.Matches(msg, k.Search):
		m.openSearch()
	case key.Matches(msg, k.Palette):
		m.openPalette()
	case key.Matches(msg, k.CycleFilter):
		m.setFilter(m.store.Filter().Next())
	case key.Matches(msg, k.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, k.FilterActive):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, k.FilterCompleted):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, k.ClearCompleted):
		m.clearCompleted()
	case key.Matches(msg, k.Pick):
		m.startDrag()
	case key.Matches(msg, k.Theme):
		m.toggleTheme()
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	theme := m.store.Theme()
	counts := m.store.Counts()

	left := m.renderListView()
	switch m.Mode {
	case ModeAdd, ModeEdit:
		left = m.renderFormView() + "\n\n" + left
	case ModeSearch:
		left = m.searchInput.View() + "\n\n" + left
	}

	right := m.renderDetail()
	if m.Mode == ModePalette {
		right = views.RenderCommandPalette(true, m.commandInput.Value()) + "\n\n" + right
	}
	if m.HelpVisible {
		right += "\n\n" + m.renderHelpView()
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	return views.RenderApp(views.AppData{
		Theme:  theme,
		Header: fmt.Sprintf("tasklist | %d todos | theme: %s | mode: %s", counts.Total, theme, m.Mode),
		FilterBar: views.RenderFilterBar(views.FilterBarData{
			Theme:     theme,
			Current:   m.store.Filter(),
			Active:    counts.Active,
			Completed: counts.Completed,
			Search:    m.store.Search(),
		}),
		LeftPane:    left,
		RightPane:   right,
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Footer:      "keys: a add | e edit | space toggle | d delete | / search | : cmd | f filter | m move | t theme | ? help | q quit",
	})
}
