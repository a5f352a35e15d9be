// Package query derives read-only views of the canonical item list.
package query

import (
	"sort"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

type Counts struct {
	Active    int
	Completed int
	Total     int
}

// Visible returns the items shown for filter and search, active items first
// and each partition in ascending Order. The input slice is never modified.
func Visible(items []model.Item, filter model.Filter, search string) []model.Item {
	query := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if query != "" && !matchesLower(item, query) {
			continue
		}
		switch filter {
		case model.FilterActive:
			if item.Done {
				continue
			}
		case model.FilterCompleted:
			if !item.Done {
				continue
			}
		}
		out = append(out, item)
	}
	SortCanonical(out)
	return out
}

// SortCanonical orders items in place: active before completed, then by
// ascending Order. Equal ranks keep their relative position.
func SortCanonical(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Done != items[j].Done {
			return !items[i].Done
		}
		return items[i].Order < items[j].Order
	})
}

func matchesLower(item model.Item, q string) bool {
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Note), q)
}

func CountItems(items []model.Item) Counts {
	var c Counts
	for _, item := range items {
		if item.Done {
			c.Completed++
		} else {
			c.Active++
		}
	}
	c.Total = len(items)
	return c
}
