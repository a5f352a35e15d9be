package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/store"
)

func (m *Model) selectedItem() (model.Item, bool) {
	if m.SelectedID == "" {
		return model.Item{}, false
	}
	return m.store.Get(m.SelectedID)
}

// syncSelection keeps the cursor on the selected item when it is still
// visible, otherwise clamps the cursor and selects whatever is under it.
func (m *Model) syncSelection() {
	visible := m.store.Visible()
	if len(visible) == 0 {
		m.Cursor = 0
		m.SelectedID = ""
		return
	}
	for i, item := range visible {
		if item.ID == m.SelectedID {
			m.Cursor = i
			return
		}
	}
	if m.Cursor >= len(visible) {
		m.Cursor = len(visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedID = visible[m.Cursor].ID
}

func (m *Model) moveCursor(delta int) {
	visible := m.store.Visible()
	if len(visible) == 0 {
		return
	}
	m.Cursor = clamp(m.Cursor+delta, 0, len(visible)-1)
	m.SelectedID = visible[m.Cursor].ID
}

func (m *Model) report(err error, okText string) {
	m.LastError = err
	if err != nil {
		m.Status = StatusBar{Text: describeError(err), IsError: true}
		m.logger.Debug("operation failed", "err", err)
	} else if okText != "" {
		m.Status = StatusBar{Text: okText}
	}
	m.syncSelection()
}

func (m *Model) toggleSelected() {
	if m.SelectedID == "" {
		return
	}
	item, err := m.store.Toggle(m.ctx, m.SelectedID)
	state := "reopened"
	if item.Done {
		state = "completed"
	}
	m.report(err, fmt.Sprintf("%s: %s", state, item.Title))
}

func (m *Model) deleteSelected() {
	item, ok := m.selectedItem()
	if !ok {
		return
	}
	err := m.store.Delete(m.ctx, item.ID)
	if err == nil || errors.Is(err, store.ErrPersist) {
		m.SelectedID = ""
	}
	m.report(err, fmt.Sprintf("deleted: %s", item.Title))
}

func (m *Model) setFilter(f model.Filter) {
	m.report(m.store.SetFilter(f), fmt.Sprintf("filter: %s", f))
}

func (m *Model) clearCompleted() {
	n, err := m.store.ClearCompleted(m.ctx)
	if err == nil && n == 0 {
		m.report(nil, "nothing to clear")
		return
	}
	m.report(err, fmt.Sprintf("cleared %d completed", n))
}

func (m *Model) toggleTheme() {
	theme, err := m.store.ToggleTheme(m.ctx)
	m.report(err, fmt.Sprintf("theme: %s", theme))
}

func (m *Model) moveSelected(delta int) {
	if m.SelectedID == "" {
		return
	}
	m.report(m.store.MoveBy(m.ctx, m.SelectedID, delta), "")
}

func (m *Model) startDrag() {
	if m.SelectedID == "" {
		return
	}
	d, err := m.store.StartDrag(m.SelectedID)
	if err != nil {
		m.report(err, "")
		return
	}
	m.drag = d
	m.dragTarget = m.Cursor
	m.Mode = ModeDrag
	m.Status = StatusBar{Text: "moving item: j/k to choose, enter to drop"}
}

func (m Model) handleDragKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Mode = ModeList
		m.Status = StatusBar{Text: "move cancelled"}
	case "enter", "m":
		err := m.store.Drop(m.ctx, m.drag, m.dragTarget)
		m.Mode = ModeList
		m.report(err, "item moved")
	case "k", "up":
		m.dragTarget = clamp(m.dragTarget-1, 0, len(m.store.Visible())-1)
	case "j", "down":
		m.dragTarget = clamp(m.dragTarget+1, 0, len(m.store.Visible())-1)
	}
	return m
}

func describeError(err error) string {
	var ce *commands.CommandError
	switch {
	case errors.As(err, &ce):
		return ce.Error()
	case errors.Is(err, store.ErrPersist):
		return "change kept in memory but not saved: " + err.Error()
	case errors.Is(err, model.ErrEmptyTitle):
		return "title is required"
	case errors.Is(err, model.ErrReorderDisallowed):
		return "reorder needs filter all and an empty search"
	case errors.Is(err, model.ErrStaleDrag):
		return "view changed while moving; move cancelled"
	case errors.Is(err, model.ErrIndexOutOfRange):
		return "position out of range"
	default:
		return err.Error()
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
