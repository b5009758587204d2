package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"

	"github.com/telephono/persistent-loadout/internal/models"
)

// corruptSuffix is appended to a shared file that could not be parsed when
// it is moved out of the way by Save.
const corruptSuffix = ".corrupt"

// SharedStore keeps all liveries of one aircraft model in a single JSON
// object, keys sorted.
type SharedStore struct {
	path string
}

// NewSharedStore creates a store backed by the file at path.
func NewSharedStore(path string) *SharedStore {
	return &SharedStore{path: path}
}

// Path returns the shared file; it is the same for every livery.
func (s *SharedStore) Path(models.LiveryKey) string { return s.path }

// Load returns the loadout stored for key. A missing file, a file that does
// not parse, and a record without fuel all yield nil.
func (s *SharedStore) Load(key models.LiveryKey) (*models.Loadout, error) {
	entries, err := s.read()
	if err != nil || entries == nil {
		return nil, err
	}

	raw, ok := entries[models.NewLiveryKey(string(key))]
	if !ok {
		slog.Debug("store: no loadout for livery", "path", s.path, "livery", key)
		return nil, nil
	}
	l, err := decodeRecord(raw)
	if err != nil {
		slog.Warn("store: could not parse loadout, ignoring",
			"path", s.path, "livery", key, "err", models.MalformedData(s.path, err))
		return nil, nil
	}
	return &l, nil
}

// Save stores l under key. The whole file is read, updated and rewritten so
// other liveries' entries are kept exactly as they were.
func (s *SharedStore) Save(key models.LiveryKey, l models.Loadout) error {
	if l.IsEmpty() {
		return models.ErrEmptyLoadout
	}
	rec, err := encodeRecord(l)
	if err != nil {
		return err
	}
	return s.update(func(entries map[models.LiveryKey]json.RawMessage) bool {
		entries[models.NewLiveryKey(string(key))] = rec
		return true
	})
}

// Delete removes key's entry.
func (s *SharedStore) Delete(key models.LiveryKey) error {
	return s.update(func(entries map[models.LiveryKey]json.RawMessage) bool {
		norm := models.NewLiveryKey(string(key))
		if _, ok := entries[norm]; !ok {
			return false
		}
		delete(entries, norm)
		return true
	})
}

// List returns the liveries present in the shared file.
func (s *SharedStore) List() ([]models.LiveryKey, error) {
	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]models.LiveryKey, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// read loads and normalizes the shared map. Returns nil (no error) if the
// file is missing or corrupt.
func (s *SharedStore) read() (map[models.LiveryKey]json.RawMessage, error) {
	data, exists, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		slog.Debug("store: no loadout file found", "path", s.path)
		return nil, nil
	}
	entries, err := decodeShared(data)
	if err != nil {
		slog.Warn("store: corrupt loadout file, ignoring",
			"path", s.path, "err", models.MalformedData(s.path, err))
		return nil, nil
	}
	return normalizeKeys(entries), nil
}

// update runs a read-modify-write cycle. fn returns false when it made no
// change, in which case nothing is written.
func (s *SharedStore) update(fn func(map[models.LiveryKey]json.RawMessage) bool) error {
	entries := make(map[models.LiveryKey]json.RawMessage)

	data, exists, err := readFile(s.path)
	if err != nil {
		return err
	}
	if exists {
		parsed, perr := decodeShared(data)
		if perr != nil {
			// keep the unreadable file around instead of silently replacing it
			backup := s.path + corruptSuffix
			slog.Warn("store: corrupt loadout file, moving aside",
				"path", s.path, "backup", backup, "err", perr)
			if err := os.Rename(s.path, backup); err != nil {
				return models.IOError(s.path, err)
			}
		} else {
			entries = normalizeKeys(parsed)
		}
	}

	if !fn(entries) {
		return nil
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := writeAtomic(s.path, append(out, '\n')); err != nil {
		return err
	}
	slog.Debug("store: wrote loadout file", "path", s.path, "liveries", len(entries))
	return nil
}

// Ensure SharedStore implements Store
var _ Store = (*SharedStore)(nil)
