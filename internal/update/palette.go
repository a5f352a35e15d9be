package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
)

func (m *Model) openPalette() {
	m.Mode = ModePalette
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
	}
	return m
}

func (m *Model) closePalette() {
	m.Mode = ModeList
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.commandInput.Value())
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	m.report(err, res.Message)
	return m
}

func (m *Model) paletteHandlers() commands.Handlers {
	ctx := m.ctx
	st := m.store
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			item, err := st.Add(ctx, a.Title, a.Note)
			if item.ID != "" {
				m.SelectedID = item.ID
			}
			return commands.Result{Message: fmt.Sprintf("added: %s", item.Title)}, err
		},
		Done: func(r commands.RefArgs) (commands.Result, error) {
			target, err := commands.ResolveRef(st.Visible(), r.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			item, err := st.Toggle(ctx, target.ID)
			if item.Done {
				return commands.Result{Message: fmt.Sprintf("completed: %s", item.Title)}, err
			}
			return commands.Result{Message: fmt.Sprintf("reopened: %s", item.Title)}, err
		},
		Remove: func(r commands.RefArgs) (commands.Result, error) {
			target, err := commands.ResolveRef(st.Visible(), r.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted: %s", target.Title)}, st.Delete(ctx, target.ID)
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			target, err := commands.ResolveRef(st.Visible(), e.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			item, err := st.Update(ctx, target.ID, e.Title, e.Note)
			return commands.Result{Message: fmt.Sprintf("updated: %s", item.Title)}, err
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			return commands.Result{Message: fmt.Sprintf("filter: %s", f.Filter)}, st.SetFilter(f.Filter)
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			st.SetSearch(s.Query)
			if s.Query == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %q", s.Query)}, nil
		},
		Clear: func() (commands.Result, error) {
			n, err := st.ClearCompleted(ctx)
			return commands.Result{Message: fmt.Sprintf("cleared %d completed", n)}, err
		},
		Move: func(mv commands.MoveArgs) (commands.Result, error) {
			err := st.Reorder(ctx, mv.From-1, mv.To-1)
			return commands.Result{Message: fmt.Sprintf("moved %d to %d", mv.From, mv.To)}, err
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			if t.Theme == "" {
				theme, err := st.ToggleTheme(ctx)
				return commands.Result{Message: fmt.Sprintf("theme: %s", theme)}, err
			}
			return commands.Result{Message: fmt.Sprintf("theme: %s", t.Theme)}, st.SetTheme(ctx, t.Theme)
		},
	}
}
