// Package store persists loadouts to disk, keyed by livery.
//
// Two layouts exist. The shared layout (canonical) keeps every livery of an
// aircraft model in one JSON object keyed by livery. The per-livery layout
// keeps one record per livery directory. The layout is configured, never
// detected.
package store

import (
	"fmt"
	"path/filepath"

	"github.com/telephono/persistent-loadout/internal/models"
)

// Layout selects how loadouts are laid out on disk.
type Layout string

const (
	LayoutShared    Layout = "shared"
	LayoutPerLivery Layout = "per-livery"
)

// ParseLayout validates a layout name from configuration.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutShared, LayoutPerLivery:
		return Layout(s), nil
	}
	return "", fmt.Errorf("store: unknown layout %q (want %q or %q)", s, LayoutShared, LayoutPerLivery)
}

// Store is the interface for persisting loadouts.
type Store interface {
	// Load returns the loadout stored for key, or nil if there is none.
	// Missing and unparseable files both count as "none".
	Load(key models.LiveryKey) (*models.Loadout, error)

	// Save persists l for key. Loadouts of other liveries are preserved.
	Save(key models.LiveryKey, l models.Loadout) error

	// List returns the stored livery keys in sorted order.
	List() ([]models.LiveryKey, error)

	// Delete removes the loadout stored for key. Deleting a missing key is not an error.
	Delete(key models.LiveryKey) error

	// Path returns the file that holds key's loadout.
	Path(key models.LiveryKey) string
}

// PathFor returns the file holding key's loadout under dir for the given
// layout. The key is normalized first, so the result never leaves dir.
func PathFor(layout Layout, dir, fileName string, key models.LiveryKey) string {
	if layout == LayoutPerLivery {
		return filepath.Join(dir, string(models.NewLiveryKey(string(key))), fileName)
	}
	return filepath.Join(dir, fileName)
}

// Open returns the store for an aircraft model directory.
func Open(layout Layout, dir, fileName string) (Store, error) {
	switch layout {
	case LayoutShared:
		return NewSharedStore(filepath.Join(dir, fileName)), nil
	case LayoutPerLivery:
		return NewDirStore(dir, fileName), nil
	}
	return nil, fmt.Errorf("store: unknown layout %q", layout)
}
