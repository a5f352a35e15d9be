package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/query"
)

// Drag identifies an item picked up for reordering together with the view
// it was picked up in.
type Drag struct {
	ID     string
	filter model.Filter
	search string
}

// CanReorder reports whether visible positions currently map 1:1 onto the
// canonical list.
func (s *Store) CanReorder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canReorderLocked()
}

func (s *Store) canReorderLocked() bool {
	return s.filter == model.FilterAll && strings.TrimSpace(s.search) == ""
}

// Reorder moves the visible item at src to dst with splice semantics and
// renumbers every partition. Out-of-range indices and filtered or searched
// views are rejected without touching the list.
func (s *Store) Reorder(ctx context.Context, src, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canReorderLocked() {
		return model.ErrReorderDisallowed
	}
	return s.reorderLocked(ctx, src, dst)
}

func (s *Store) StartDrag(id string) (Drag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canReorderLocked() {
		return Drag{}, model.ErrReorderDisallowed
	}
	if s.indexLocked(id) < 0 {
		return Drag{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return Drag{ID: id, filter: s.filter, search: s.search}, nil
}

// Drop finishes a drag at visible position dst. It fails with
// model.ErrStaleDrag when filter or search changed after StartDrag.
func (s *Store) Drop(ctx context.Context, d Drag, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.filter != s.filter || d.search != s.search {
		return model.ErrStaleDrag
	}
	if !s.canReorderLocked() {
		return model.ErrReorderDisallowed
	}
	src := indexOf(s.visibleLocked(), d.ID)
	if src < 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, d.ID)
	}
	return s.reorderLocked(ctx, src, dst)
}

// MoveBy shifts id by delta positions, staying inside its own partition.
func (s *Store) MoveBy(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canReorderLocked() {
		return model.ErrReorderDisallowed
	}
	visible := s.visibleLocked()
	src := indexOf(visible, id)
	if src < 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	lo, hi := partitionBounds(visible, visible[src].Done)
	dst := src + delta
	if dst < lo {
		dst = lo
	}
	if dst > hi-1 {
		dst = hi - 1
	}
	return s.reorderLocked(ctx, src, dst)
}

func (s *Store) visibleLocked() []model.Item {
	return query.Visible(s.items, s.filter, s.search)
}

func (s *Store) reorderLocked(ctx context.Context, src, dst int) error {
	visible := s.visibleLocked()
	n := len(visible)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return fmt.Errorf("%w: src=%d dst=%d len=%d", model.ErrIndexOutOfRange, src, dst, n)
	}
	if src == dst {
		return nil
	}
	moved := visible[src]
	rest := make([]model.Item, 0, n-1)
	rest = append(rest, visible[:src]...)
	rest = append(rest, visible[src+1:]...)
	spliced := make([]model.Item, 0, n)
	spliced = append(spliced, rest[:dst]...)
	spliced = append(spliced, moved)
	spliced = append(spliced, rest[dst:]...)

	active, done := partition(spliced)
	next := append(active, done...)
	renumber(next)
	s.logger.Debug("item reordered", "id", moved.ID, "from", src, "to", dst)
	return s.commitLocked(ctx, "reorder", next, s.theme)
}

// partitionBounds returns the [lo, hi) range of visible holding items with
// the given completion state.
func partitionBounds(visible []model.Item, done bool) (int, int) {
	lo, hi := -1, -1
	for i, item := range visible {
		if item.Done != done {
			continue
		}
		if lo < 0 {
			lo = i
		}
		hi = i + 1
	}
	return lo, hi
}
