package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m *Model) openForm(mode Mode, item model.Item) {
	m.Mode = mode
	m.editingID = item.ID
	m.noteFocus = false
	m.titleInput.SetValue(item.Title)
	m.noteArea.SetValue(item.Note)
	m.noteArea.Blur()
	m.titleInput.Focus()
	if mode == ModeAdd {
		m.Status = StatusBar{Text: "adding todo"}
	} else {
		m.Status = StatusBar{Text: "editing: " + item.Title}
	}
}

func (m *Model) closeForm() {
	m.Mode = ModeList
	m.editingID = ""
	m.noteFocus = false
	m.titleInput.SetValue("")
	m.titleInput.Blur()
	m.noteArea.Reset()
	m.noteArea.Blur()
}

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.Status = StatusBar{Text: "cancelled"}
		return m
	case "tab", "shift+tab":
		m.noteFocus = !m.noteFocus
		if m.noteFocus {
			m.titleInput.Blur()
			m.noteArea.Focus()
		} else {
			m.noteArea.Blur()
			m.titleInput.Focus()
		}
		return m
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if !m.noteFocus {
			return m.submitForm()
		}
	}

	if m.noteFocus {
		if msg.Type == tea.KeyRunes {
			m.noteArea.InsertString(string(msg.Runes))
			return m
		}
		m.noteArea, _ = m.noteArea.Update(msg)
		return m
	}
	if msg.Type == tea.KeyRunes {
		m.titleInput.SetValue(m.titleInput.Value() + string(msg.Runes))
		return m
	}
	m.titleInput, _ = m.titleInput.Update(msg)
	return m
}

// submitForm keeps the form open when the title is blank so the input is
// not lost.
func (m Model) submitForm() Model {
	title := m.titleInput.Value()
	note := m.noteArea.Value()
	if strings.TrimSpace(title) == "" {
		m.Status = StatusBar{Text: describeError(model.ErrEmptyTitle), IsError: true}
		return m
	}
	if m.Mode == ModeAdd {
		item, err := m.store.Add(m.ctx, title, note)
		if item.ID != "" {
			m.SelectedID = item.ID
		}
		m.closeForm()
		m.report(err, fmt.Sprintf("added: %s", item.Title))
		return m
	}
	item, err := m.store.Update(m.ctx, m.editingID, title, &note)
	m.closeForm()
	m.report(err, fmt.Sprintf("updated: %s", item.Title))
	return m
}

func (m Model) renderFormView() string {
	heading := "add todo"
	if m.Mode == ModeEdit {
		heading = "edit todo"
	}
	return views.RenderForm(views.FormData{
		Heading:   heading,
		TitleView: m.titleInput.View(),
		NoteView:  m.noteArea.View(),
		NoteFocus: m.noteFocus,
	})
}

func (m *Model) openSearch() {
	m.Mode = ModeSearch
	m.searchInput.SetValue(m.store.Search())
	m.searchInput.Focus()
	m.Status = StatusBar{Text: "search: enter to keep, esc to clear"}
}

// handleSearchKey applies the query on every keystroke so the list narrows
// as the user types.
func (m Model) handleSearchKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		m.Mode = ModeList
		m.searchInput.Blur()
		m.Status = StatusBar{Text: fmt.Sprintf("search: %q", m.store.Search())}
		m.syncSelection()
		return m
	case "esc":
		m.Mode = ModeList
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.store.SetSearch("")
		m.Status = StatusBar{Text: "search cleared"}
		m.syncSelection()
		return m
	}
	if msg.Type == tea.KeyRunes {
		m.searchInput.SetValue(m.searchInput.Value() + string(msg.Runes))
	} else {
		m.searchInput, _ = m.searchInput.Update(msg)
	}
	m.store.SetSearch(m.searchInput.Value())
	m.syncSelection()
	return m
}
