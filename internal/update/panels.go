package update

import (
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) renderListView() string {
	visible := m.store.Visible()
	rows := make([]views.ItemRow, 0, len(visible))

	if m.Mode == ModeDrag {
		visible = previewDrop(visible, m.drag.ID, m.dragTarget)
	}
	for i, item := range visible {
		rows = append(rows, views.ItemRow{
			Position: i + 1,
			Title:    item.Title,
			HasNote:  item.Note != "",
			Done:     item.Done,
			Selected: m.Mode != ModeDrag && item.ID == m.SelectedID,
			Carried:  m.Mode == ModeDrag && item.ID == m.drag.ID,
		})
	}
	return views.RenderListPanel(views.ListPanelData{
		Theme:      m.store.Theme(),
		Rows:       rows,
		CanReorder: m.store.CanReorder(),
		Dragging:   m.Mode == ModeDrag,
	})
}

// previewDrop shows visible as it would look with id spliced in at dst.
func previewDrop(visible []model.Item, id string, dst int) []model.Item {
	src := -1
	for i := range visible {
		if visible[i].ID == id {
			src = i
			break
		}
	}
	if src < 0 || dst < 0 || dst >= len(visible) || src == dst {
		return visible
	}
	moved := visible[src]
	out := make([]model.Item, 0, len(visible))
	out = append(out, visible[:src]...)
	out = append(out, visible[src+1:]...)
	out = append(out[:dst], append([]model.Item{moved}, out[dst:]...)...)
	return out
}

func (m Model) renderDetail() string {
	item, ok := m.selectedItem()
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	theme := m.store.Theme()
	note := item.Note
	if m.glamour {
		note = views.RenderMarkdown(item.Note, theme, m.detailView.Width-2)
	}
	vp := m.detailView
	vp.SetContent(views.RenderDetail(views.DetailData{
		Theme:     theme,
		ID:        item.ID,
		Title:     item.Title,
		Done:      item.Done,
		CreatedAt: item.CreatedAt.Local().Format(time.DateTime),
		NoteView:  note,
	}))
	return vp.View()
}
