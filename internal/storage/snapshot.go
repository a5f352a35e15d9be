package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// ErrCorrupt marks a persisted blob that cannot be turned into a snapshot.
var ErrCorrupt = errors.New("storage: corrupt snapshot")

const snapshotSchemaURL = "snapshot.schema.json"

//go:embed schema/snapshot.schema.json
var snapshotSchemaJSON []byte

var (
	schemaOnce     sync.Once
	snapshotSchema *jsonschema.Schema
	schemaErr      error
)

// Snapshot is the persisted part of the list state. Filter and search are
// view state and never part of it.
type Snapshot struct {
	Items []model.Item
	Theme model.Theme
}

func DefaultSnapshot() Snapshot {
	return Snapshot{Items: []model.Item{}, Theme: model.ThemeLight}
}

type snapshotRecord struct {
	Items []itemRecord `json:"items"`
	Theme string       `json:"theme"`
}

type itemRecord struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Note      *string `json:"note,omitempty"`
	Done      bool    `json:"done"`
	CreatedAt int64   `json:"createdAt"`
	Order     int     `json:"order"`
}

func Encode(s Snapshot) ([]byte, error) {
	theme := s.Theme
	if !theme.IsValid() {
		theme = model.ThemeLight
	}
	rec := snapshotRecord{
		Items: make([]itemRecord, 0, len(s.Items)),
		Theme: string(theme),
	}
	for _, item := range s.Items {
		note := item.Note
		rec.Items = append(rec.Items, itemRecord{
			ID:        item.ID,
			Title:     item.Title,
			Note:      &note,
			Done:      item.Done,
			CreatedAt: item.CreatedAt.UnixMilli(),
			Order:     item.Order,
		})
	}
	return json.Marshal(rec)
}

// Decode validates raw against the snapshot schema and converts it. Items
// persisted before notes existed come back with an empty note; a missing
// theme falls back to light.
func Decode(raw []byte) (Snapshot, error) {
	if err := validateSnapshot(raw); err != nil {
		return Snapshot{}, err
	}
	var rec snapshotRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	out := Snapshot{
		Items: make([]model.Item, 0, len(rec.Items)),
		Theme: model.ThemeLight,
	}
	if rec.Theme != "" {
		out.Theme = model.Theme(rec.Theme)
	}
	seen := make(map[string]bool, len(rec.Items))
	for _, r := range rec.Items {
		if seen[r.ID] {
			return Snapshot{}, fmt.Errorf("%w: duplicate item id %q", ErrCorrupt, r.ID)
		}
		seen[r.ID] = true
		note := ""
		if r.Note != nil {
			note = *r.Note
		}
		item := model.Item{
			ID:        r.ID,
			Title:     strings.TrimSpace(r.Title),
			Note:      note,
			Done:      r.Done,
			CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
			Order:     r.Order,
		}
		if err := item.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("%w: item %q: %v", ErrCorrupt, r.ID, err)
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func validateSnapshot(raw []byte) error {
	schema, err := loadSnapshotSchema()
	if err != nil {
		return err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

func loadSnapshotSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader(snapshotSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load snapshot schema: %w", err)
			return
		}
		snapshotSchema, schemaErr = compiler.Compile(snapshotSchemaURL)
	})
	return snapshotSchema, schemaErr
}
