package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle        = errors.New("model: item title is required")
	ErrNotFound          = errors.New("model: item not found")
	ErrReorderDisallowed = errors.New("model: reorder requires filter all and an empty search")
	ErrIndexOutOfRange   = errors.New("model: reorder index out of range")
	ErrStaleDrag         = errors.New("model: view changed since drag started")
	ErrInvalidFilter     = errors.New("model: invalid filter")
	ErrInvalidTheme      = errors.New("model: invalid theme")
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters in the order the filter bar shows them.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	default:
		return false
	}
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
	return f, nil
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func ParseTheme(raw string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
	}
	return t, nil
}

// Item is a single task. Order ranks the item inside its completion
// partition only; Done always takes priority when sorting.
type Item struct {
	ID        string
	Title     string
	Note      string
	Done      bool
	CreatedAt time.Time
	Order     int
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("model: item id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if i.CreatedAt.IsZero() {
		return errors.New("model: item created_at is required")
	}
	if i.Order < 0 {
		return fmt.Errorf("model: item order must be non-negative, got %d", i.Order)
	}
	return nil
}
