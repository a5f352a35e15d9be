package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

var ErrAmbiguousRef = errors.New("commands: reference matches more than one item")

// ResolveRef finds the item a user reference points at inside visible. A
// reference is a 1-based position, a full id, or a unique id prefix.
func ResolveRef(visible []model.Item, ref string) (model.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Item{}, fmt.Errorf("%w: empty reference", model.ErrNotFound)
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(visible) {
			return visible[n-1], nil
		}
	}
	var match *model.Item
	for i := range visible {
		if visible[i].ID == ref {
			return visible[i], nil
		}
		if strings.HasPrefix(visible[i].ID, ref) {
			if match != nil {
				return model.Item{}, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref)
			}
			match = &visible[i]
		}
	}
	if match == nil {
		return model.Item{}, fmt.Errorf("%w: %s", model.ErrNotFound, ref)
	}
	return *match, nil
}
