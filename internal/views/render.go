package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/tasklist/internal/model"
)

type AppData struct {
	Theme        model.Theme
	Header       string
	FilterBar    string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

// Palette is the colour set for one theme.
type Palette struct {
	Header lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
	Done   lipgloss.Color
	Status lipgloss.Color
	Error  lipgloss.Color
	Border lipgloss.Color
}

var (
	lightPalette = Palette{
		Header: lipgloss.Color("25"),
		Accent: lipgloss.Color("33"),
		Muted:  lipgloss.Color("244"),
		Done:   lipgloss.Color("248"),
		Status: lipgloss.Color("28"),
		Error:  lipgloss.Color("160"),
		Border: lipgloss.Color("250"),
	}
	darkPalette = Palette{
		Header: lipgloss.Color("12"),
		Accent: lipgloss.Color("14"),
		Muted:  lipgloss.Color("8"),
		Done:   lipgloss.Color("240"),
		Status: lipgloss.Color("10"),
		Error:  lipgloss.Color("9"),
		Border: lipgloss.Color("238"),
	}
)

func PaletteFor(theme model.Theme) Palette {
	if theme == model.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

type styles struct {
	header   lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	done     lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	panel    lipgloss.Style
	selected lipgloss.Style
}

func stylesFor(theme model.Theme) styles {
	p := PaletteFor(theme)
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(p.Header),
		accent:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(p.Done),
		status:   lipgloss.NewStyle().Foreground(p.Status),
		err:      lipgloss.NewStyle().Foreground(p.Error),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
	}
}

func RenderApp(data AppData) string {
	st := stylesFor(data.Theme)
	left := st.panel.Width(58).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := st.panel.Width(48).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := st.status.Render(data.StatusLine)
	if data.StatusError {
		status = st.err.Render(data.StatusLine)
	}

	lines := []string{st.header.Render(data.Header)}
	if data.FilterBar != "" {
		lines = append(lines, data.FilterBar)
	}
	lines = append(lines, row)
	if data.StatusLine != "" {
		lines = append(lines, status)
	}
	if data.Notification != "" {
		lines = append(lines, st.panel.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, st.muted.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders a note with the glamour style matching theme and
// falls back to the raw text if rendering fails.
func RenderMarkdown(md string, theme model.Theme, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if theme == model.ThemeDark {
		style = "dark"
	}
	if width <= 0 {
		width = 44
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
