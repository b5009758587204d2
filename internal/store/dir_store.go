package store

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/telephono/persistent-loadout/internal/models"
)

// DirStore keeps one loadout file per livery directory:
// <root>/<livery>/<fileName>.
type DirStore struct {
	root     string
	fileName string
}

// NewDirStore creates a per-livery store rooted at root.
func NewDirStore(root, fileName string) *DirStore {
	return &DirStore{root: root, fileName: fileName}
}

func (s *DirStore) Path(key models.LiveryKey) string {
	return PathFor(LayoutPerLivery, s.root, s.fileName, key)
}

// Load returns the loadout in key's directory, or nil if it is missing or
// does not parse.
func (s *DirStore) Load(key models.LiveryKey) (*models.Loadout, error) {
	path := s.Path(key)
	data, exists, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		slog.Debug("store: no loadout file found", "path", path)
		return nil, nil
	}
	l, err := decodeRecord(data)
	if err != nil {
		slog.Warn("store: could not parse loadout, ignoring",
			"path", path, "err", models.MalformedData(path, err))
		return nil, nil
	}
	return &l, nil
}

func (s *DirStore) Save(key models.LiveryKey, l models.Loadout) error {
	if l.IsEmpty() {
		return models.ErrEmptyLoadout
	}
	data, err := encodeRecord(l)
	if err != nil {
		return err
	}
	path := s.Path(key)
	if err := writeAtomic(path, append(data, '\n')); err != nil {
		return err
	}
	slog.Debug("store: wrote loadout file", "path", path)
	return nil
}

// Delete removes key's file and, if it is then empty, its directory.
func (s *DirStore) Delete(key models.LiveryKey) error {
	path := s.Path(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.IOError(path, err)
	}
	// only succeeds when nothing else lives in the livery directory
	_ = os.Remove(filepath.Dir(path))
	return nil
}

// List returns the liveries whose directory holds a loadout file.
func (s *DirStore) List() ([]models.LiveryKey, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, os.ErrNotExist) {
		return []models.LiveryKey{}, nil
	}
	if err != nil {
		return nil, models.IOError(s.root, err)
	}

	keys := []models.LiveryKey{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), s.fileName)); err != nil {
			continue
		}
		keys = append(keys, models.NewLiveryKey(e.Name()))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// Ensure DirStore implements Store
var _ Store = (*DirStore)(nil)
