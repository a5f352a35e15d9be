package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

func sampleSnapshot() Snapshot {
	created := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	return Snapshot{
		Items: []model.Item{
			{ID: "a", Title: "Buy milk", Note: "2%", CreatedAt: created, Order: 0},
			{ID: "b", Title: "Call Alice", CreatedAt: created.Add(time.Minute), Order: 1},
			{ID: "c", Title: "Pay rent", Done: true, CreatedAt: created.Add(2 * time.Minute), Order: 0},
		},
		Theme: model.ThemeDark,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := sampleSnapshot()
	raw, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\nin:  %#v\nout: %#v", in, out)
	}
}

func TestEncodeLayout(t *testing.T) {
	raw, err := Encode(Snapshot{
		Items: []model.Item{{ID: "a", Title: "x", CreatedAt: time.UnixMilli(1700000000000)}},
		Theme: model.ThemeLight,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"items":[{"id":"a","title":"x","note":"","done":false,"createdAt":1700000000000,"order":0}],"theme":"light"}`
	if string(raw) != want {
		t.Fatalf("unexpected layout:\n got: %s\nwant: %s", raw, want)
	}
}

func TestDecodeMigratesMissingNote(t *testing.T) {
	raw := []byte(`{"items":[{"id":"old","title":"Legacy","done":false,"createdAt":1700000000000,"order":0}],"theme":"dark"}`)
	snap, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Note != "" {
		t.Fatalf("expected note defaulted to empty, got %#v", snap.Items)
	}
	if snap.Theme != model.ThemeDark {
		t.Fatalf("expected dark theme, got %q", snap.Theme)
	}
}

func TestDecodeNullNoteIsEmpty(t *testing.T) {
	raw := []byte(`{"items":[{"id":"a","title":"Keep","note":null,"done":false,"createdAt":1700000000000,"order":0}]}`)
	snap, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode null note: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Note != "" || snap.Items[0].Title != "Keep" {
		t.Fatalf("expected item kept with empty note, got %#v", snap.Items)
	}
}

func TestDecodeMissingThemeDefaultsLight(t *testing.T) {
	snap, err := Decode([]byte(`{"items":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Theme != model.ThemeLight {
		t.Fatalf("expected light theme, got %q", snap.Theme)
	}
}

func TestDecodeRejectsCorruptBlobs(t *testing.T) {
	cases := map[string]string{
		"not json":       `{items:`,
		"wrong type":     `{"items":{}}`,
		"missing items":  `{"theme":"light"}`,
		"bad theme":      `{"items":[],"theme":"solarized"}`,
		"blank title":    `{"items":[{"id":"a","title":"  ","done":false,"createdAt":1,"order":0}]}`,
		"blank id":       `{"items":[{"id":"   ","title":"x","done":false,"createdAt":1,"order":0}]}`,
		"negative order": `{"items":[{"id":"a","title":"x","done":false,"createdAt":1,"order":-1}]}`,
		"duplicate ids":  `{"items":[{"id":"a","title":"x","done":false,"createdAt":1,"order":0},{"id":"a","title":"y","done":false,"createdAt":1,"order":1}]}`,
	}
	for name, raw := range cases {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestAdapterLoadDefaults(t *testing.T) {
	ctx := context.Background()

	empty, err := NewAdapter(NewMemorySlot(nil), nil)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	if got := empty.Load(ctx); len(got.Items) != 0 || got.Theme != model.ThemeLight {
		t.Fatalf("expected default snapshot, got %#v", got)
	}

	corrupt, err := NewAdapter(NewMemorySlot([]byte("garbage")), nil)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	if got := corrupt.Load(ctx); len(got.Items) != 0 || got.Theme != model.ThemeLight {
		t.Fatalf("expected default snapshot for corrupt blob, got %#v", got)
	}
}

func TestAdapterSaveLoadFileSlot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	slot, err := NewFileSlot(path)
	if err != nil {
		t.Fatalf("new file slot: %v", err)
	}
	adapter, err := NewAdapter(slot, nil)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	in := sampleSnapshot()
	if err := adapter.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err=%v", err)
	}
	out := adapter.Load(ctx)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("file round trip mismatch:\nin:  %#v\nout: %#v", in, out)
	}
}

func TestAdapterSaveLoadSQLiteSlot(t *testing.T) {
	ctx := context.Background()
	slot, err := OpenSQLite(filepath.Join(t.TempDir(), "tasklist.db"), "tasklist-storage")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = slot.Close() })

	adapter, err := NewAdapter(slot, nil)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	in := sampleSnapshot()
	if err := adapter.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in.Theme = model.ThemeLight
	if err := adapter.Save(ctx, in); err != nil {
		t.Fatalf("second save: %v", err)
	}
	out := adapter.Load(ctx)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("sqlite round trip mismatch:\nin:  %#v\nout: %#v", in, out)
	}
	if _, err := slot.UpdatedAt(ctx); err != nil {
		t.Fatalf("updated at: %v", err)
	}
}

func TestFileSlotMissingAndBlank(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	slot, err := NewFileSlot(path)
	if err != nil {
		t.Fatalf("new file slot: %v", err)
	}
	if _, err := slot.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing file, got %v", err)
	}
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write blank: %v", err)
	}
	if _, err := slot.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank file, got %v", err)
	}
	if _, err := NewFileSlot("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestAdapterExport(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewAdapter(NewMemorySlot(nil), nil)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	var buf bytes.Buffer
	if err := adapter.Export(ctx, &buf); err != nil {
		t.Fatalf("export empty: %v", err)
	}
	if buf.String() != "{\"items\":[],\"theme\":\"light\"}\n" {
		t.Fatalf("unexpected empty export: %q", buf.String())
	}
}
