package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/logging"
)

// Adapter mirrors snapshots to a Slot.
type Adapter struct {
	slot   Slot
	logger *log.Logger
}

func NewAdapter(slot Slot, logger *log.Logger) (*Adapter, error) {
	if slot == nil {
		return nil, errors.New("storage: nil slot")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Adapter{slot: slot, logger: logger}, nil
}

// Load never fails: a missing blob yields the default snapshot, and an
// unreadable or corrupt one is logged and replaced by the default.
func (a *Adapter) Load(ctx context.Context) Snapshot {
	raw, err := a.slot.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("snapshot read failed, starting empty", "err", err)
		}
		return DefaultSnapshot()
	}
	snap, err := Decode(raw)
	if err != nil {
		a.logger.Warn("snapshot corrupt, starting empty", "err", err, "bytes", len(raw))
		return DefaultSnapshot()
	}
	a.logger.Debug("snapshot loaded", "items", len(snap.Items), "theme", snap.Theme)
	return snap
}

func (a *Adapter) Save(ctx context.Context, s Snapshot) error {
	payload, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := a.slot.Write(ctx, payload); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	a.logger.Debug("snapshot saved", "items", len(s.Items), "theme", s.Theme)
	return nil
}

// Export writes the current slot contents to w, for backups.
func (a *Adapter) Export(ctx context.Context, w io.Writer) error {
	raw, err := a.slot.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			raw, err = Encode(DefaultSnapshot())
			if err != nil {
				return err
			}
		} else {
			return err
		}
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}
