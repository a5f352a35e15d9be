package views

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sandeepkv93/tasklist/internal/model"
)

const EmptyListText = "No todos found"

type ItemRow struct {
	Position int
	Title    string
	HasNote  bool
	Done     bool
	Selected bool
	Carried  bool
}

type ListPanelData struct {
	Theme      model.Theme
	Rows       []ItemRow
	CanReorder bool
	Dragging   bool
}

type FilterBarData struct {
	Theme     model.Theme
	Current   model.Filter
	Active    int
	Completed int
	Search    string
}

type FormData struct {
	Heading   string
	TitleView string
	NoteView  string
	NoteFocus bool
	ErrorText string
}

type DetailData struct {
	Theme     model.Theme
	ID        string
	Title     string
	Done      bool
	CreatedAt string
	NoteView  string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderListPanel(data ListPanelData) string {
	st := stylesFor(data.Theme)
	if len(data.Rows) == 0 {
		return st.muted.Render(EmptyListText)
	}
	var b strings.Builder
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		if row.Carried {
			cursor = "≡"
		}
		check := "[ ]"
		if row.Done {
			check = "[x]"
		}
		title := row.Title
		if row.HasNote {
			title += " ✎"
		}
		switch {
		case row.Carried:
			title = st.accent.Render(title)
		case row.Done:
			title = st.done.Render(title)
		case row.Selected:
			title = st.selected.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %2d. %s %s\n", cursor, row.Position, check, title))
	}
	switch {
	case data.Dragging:
		b.WriteString(st.muted.Render("moving: j/k to choose a slot, enter to drop, esc to cancel"))
	case !data.CanReorder:
		b.WriteString(st.muted.Render("reorder disabled while filtering or searching"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderFilterBar(data FilterBarData) string {
	st := stylesFor(data.Theme)
	parts := make([]string, 0, len(model.Filters))
	for i, f := range model.Filters {
		label := fmt.Sprintf("%d %s", i+1, capitalize(string(f)))
		if f == data.Current {
			parts = append(parts, st.accent.Render("["+label+"]"))
		} else {
			parts = append(parts, st.muted.Render(" "+label+" "))
		}
	}
	stats := fmt.Sprintf("Active: %d  Completed: %d", data.Active, data.Completed)
	if data.Completed > 0 {
		stats += st.muted.Render("  (C clear completed)")
	}
	line := strings.Join(parts, " ") + "  " + stats
	if strings.TrimSpace(data.Search) != "" {
		line += "\n" + st.muted.Render("search: ") + data.Search
	}
	return line
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(data.Heading + ":\n")
	b.WriteString(data.TitleView + "\n")
	b.WriteString(data.NoteView + "\n")
	if data.NoteFocus {
		b.WriteString("keys: [tab] title [ctrl+s] save [esc] cancel")
	} else {
		b.WriteString("keys: [tab] note [enter] save [esc] cancel")
	}
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText)
	}
	return b.String()
}

func RenderDetail(data DetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	st := stylesFor(data.Theme)
	state := "active"
	if data.Done {
		state = "completed"
	}
	var b strings.Builder
	b.WriteString(st.accent.Render(data.Title) + "\n")
	b.WriteString(st.muted.Render(fmt.Sprintf("id: %s\nstate: %s\ncreated: %s", data.ID, state, data.CreatedAt)))
	if strings.TrimSpace(data.NoteView) != "" {
		b.WriteString("\n\n" + data.NoteView)
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: :%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
