package model

import (
	"errors"
	"testing"
	"time"
)

func TestItemValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	item := Item{
		ID:        "item-1",
		Title:     "Buy milk",
		Note:      "2%",
		CreatedAt: now,
	}
	if err := item.Validate(); err != nil {
		t.Fatalf("expected valid item, got error: %v", err)
	}
}

func TestItemValidateRequiresTitle(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	item := Item{ID: "item-1", Title: "   ", CreatedAt: now}
	err := item.Validate()
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got: %v", err)
	}
}

func TestItemValidateRejectsNegativeOrder(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	item := Item{ID: "item-1", Title: "x", CreatedAt: now, Order: -1}
	if err := item.Validate(); err == nil {
		t.Fatal("expected error for negative order")
	}
}

func TestParseFilter(t *testing.T) {
	cases := []struct {
		in   string
		want Filter
	}{
		{"all", FilterAll},
		{" Active ", FilterActive},
		{"COMPLETED", FilterCompleted},
	}
	for _, tc := range cases {
		got, err := ParseFilter(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFilter("done"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got: %v", err)
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for i := 0; i < 3; i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []Filter{FilterAll, FilterActive, FilterCompleted, FilterAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle step %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestThemeToggleAndParse(t *testing.T) {
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Fatal("theme toggle should flip light and dark")
	}
	if _, err := ParseTheme("solarized"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got: %v", err)
	}
	got, err := ParseTheme("Dark")
	if err != nil || got != ThemeDark {
		t.Fatalf("expected dark theme, got %q err=%v", got, err)
	}
}
