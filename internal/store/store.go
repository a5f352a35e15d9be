// Package store owns the canonical task list and every mutation on it.
//
// The canonical list is always held as all active items followed by all
// completed items, each partition in ascending Order, so it coincides with
// the unfiltered, unsearched view. Every exported operation runs under a
// single mutex and either replaces the list wholesale or leaves it untouched.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/query"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

// ErrPersist wraps a failed snapshot write. The in-memory change it follows
// has already been applied.
var ErrPersist = errors.New("store: persist failed")

type Saver interface {
	Save(ctx context.Context, s storage.Snapshot) error
}

type Option func(*Store)

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

type Store struct {
	mu     sync.Mutex
	items  []model.Item
	filter model.Filter
	search string
	theme  model.Theme
	saver  Saver
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

// New builds a store from a loaded snapshot. saver may be nil for a purely
// in-memory list.
func New(snap storage.Snapshot, saver Saver, opts ...Option) *Store {
	items := append([]model.Item(nil), snap.Items...)
	query.SortCanonical(items)
	theme := snap.Theme
	if !theme.IsValid() {
		theme = model.ThemeLight
	}
	s := &Store{
		items:  items,
		filter: model.FilterAll,
		theme:  theme,
		saver:  saver,
		logger: logging.Discard(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Add(ctx context.Context, title, note string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return model.Item{}, model.ErrEmptyTitle
	}
	active, done := partition(s.items)
	item := model.Item{
		ID:        s.newID(),
		Title:     title,
		Note:      strings.TrimSpace(note),
		CreatedAt: s.now().UTC(),
		Order:     len(active),
	}
	next := make([]model.Item, 0, len(s.items)+1)
	next = append(next, active...)
	next = append(next, item)
	next = append(next, done...)
	// after delete gaps the active count can undercut surviving ranks
	query.SortCanonical(next)
	s.logger.Debug("item added", "id", item.ID, "order", item.Order)
	return item, s.commitLocked(ctx, "add", next, s.theme)
}

// Toggle flips completion for id, then splits the stored sequence into
// active and completed without reordering either side and renumbers each
// partition densely from zero. A reopened item lands last among the active
// items; a newly completed one lands first among the completed.
func (s *Store) Toggle(ctx context.Context, id string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Item{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	flipped := append([]model.Item(nil), s.items...)
	flipped[idx].Done = !flipped[idx].Done
	active, done := partition(flipped)
	next := append(active, done...)
	renumber(next)
	toggled := next[indexOf(next, id)]
	s.logger.Debug("item toggled", "id", id, "done", toggled.Done)
	return toggled, s.commitLocked(ctx, "toggle", next, s.theme)
}

// Delete removes id. Remaining ranks are left as they are.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	next := make([]model.Item, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	s.logger.Debug("item deleted", "id", id)
	return s.commitLocked(ctx, "delete", next, s.theme)
}

// Update replaces the title and, when note is non-nil, the note. A blank
// title rejects the whole update.
func (s *Store) Update(ctx context.Context, id, title string, note *string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Item{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return s.items[idx], model.ErrEmptyTitle
	}
	next := append([]model.Item(nil), s.items...)
	next[idx].Title = title
	if note != nil {
		next[idx].Note = strings.TrimSpace(*note)
	}
	s.logger.Debug("item updated", "id", id, "note_changed", note != nil)
	return next[idx], s.commitLocked(ctx, "update", next, s.theme)
}

// ClearCompleted removes every completed item and reports how many went.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, done := partition(s.items)
	if len(done) == 0 {
		return 0, nil
	}
	s.logger.Debug("completed cleared", "removed", len(done))
	return len(done), s.commitLocked(ctx, "clear_completed", active, s.theme)
}

func (s *Store) SetFilter(f model.Filter) error {
	if !f.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidFilter, f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	return nil
}

func (s *Store) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = q
}

func (s *Store) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Store) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

func (s *Store) Theme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) ToggleTheme(ctx context.Context) (model.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	theme := s.theme.Toggle()
	return theme, s.commitLocked(ctx, "toggle_theme", s.items, theme)
}

func (s *Store) SetTheme(ctx context.Context, theme model.Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidTheme, theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if theme == s.theme {
		return nil
	}
	return s.commitLocked(ctx, "set_theme", s.items, theme)
}

// Items returns a copy of the canonical list.
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Item(nil), s.items...)
}

func (s *Store) Get(id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Item{}, false
	}
	return s.items[idx], true
}

// Visible is the list as currently filtered and searched.
func (s *Store) Visible() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.Visible(s.items, s.filter, s.search)
}

func (s *Store) Counts() query.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.CountItems(s.items)
}

func (s *Store) Snapshot() storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() storage.Snapshot {
	return storage.Snapshot{
		Items: append([]model.Item(nil), s.items...),
		Theme: s.theme,
	}
}

func (s *Store) commitLocked(ctx context.Context, op string, next []model.Item, theme model.Theme) error {
	s.items = next
	s.theme = theme
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Error("persist failed", "op", op, "err", err)
		return fmt.Errorf("%w: %s: %w", ErrPersist, op, err)
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	return indexOf(s.items, id)
}

func indexOf(items []model.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func partition(items []model.Item) (active, done []model.Item) {
	active = make([]model.Item, 0, len(items))
	done = make([]model.Item, 0)
	for _, item := range items {
		if item.Done {
			done = append(done, item)
		} else {
			active = append(active, item)
		}
	}
	return active, done
}

// renumber assigns Order 0..n-1 inside each partition following the
// current sequence. items must already be partitioned.
func renumber(items []model.Item) {
	nextActive, nextDone := 0, 0
	for i := range items {
		if items[i].Done {
			items[i].Order = nextDone
			nextDone++
		} else {
			items[i].Order = nextActive
			nextActive++
		}
	}
}
