package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tasklist/internal/views"
)

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	plain := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		plain = append(plain, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: []key.Binding{m.keys.Add, m.keys.Toggle, m.keys.Search, m.keys.Quit},
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) helpBindings() []key.Binding {
	k := m.keys
	return []key.Binding{
		k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete,
		k.Search, k.Palette, k.CycleFilter, k.FilterAll, k.FilterActive, k.FilterCompleted,
		k.ClearCompleted, k.MoveUp, k.MoveDown, k.Pick, k.Theme, k.Help, k.Quit,
	}
}
