package store

import (
	"sort"
	"sync"

	"github.com/telephono/persistent-loadout/internal/models"
)

// MemStore is an in-memory Store for tests that never writes to disk.
// It records every Load and Save so tests can check call order.
type MemStore struct {
	mu       sync.Mutex
	loadouts map[models.LiveryKey]models.Loadout
	ops      []string
	failSave error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{loadouts: make(map[models.LiveryKey]models.Loadout)}
}

// Load returns a copy of the stored loadout, or nil.
func (m *MemStore) Load(key models.LiveryKey) (*models.Loadout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key = models.NewLiveryKey(string(key))
	m.ops = append(m.ops, "load "+string(key))
	l, ok := m.loadouts[key]
	if !ok {
		return nil, nil
	}
	cp := l.Clone()
	return &cp, nil
}

// Save stores a copy of l.
func (m *MemStore) Save(key models.LiveryKey, l models.Loadout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key = models.NewLiveryKey(string(key))
	m.ops = append(m.ops, "save "+string(key))
	if m.failSave != nil {
		return m.failSave
	}
	if l.IsEmpty() {
		return models.ErrEmptyLoadout
	}
	m.loadouts[key] = l.Clone()
	return nil
}

func (m *MemStore) Delete(key models.LiveryKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loadouts, models.NewLiveryKey(string(key)))
	return nil
}

func (m *MemStore) List() ([]models.LiveryKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]models.LiveryKey, 0, len(m.loadouts))
	for k := range m.loadouts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// Path returns ":memory:" to indicate this is an in-memory store.
func (m *MemStore) Path(models.LiveryKey) string { return ":memory:" }

// Put seeds a loadout without recording an operation.
func (m *MemStore) Put(key models.LiveryKey, l models.Loadout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadouts[models.NewLiveryKey(string(key))] = l.Clone()
}

// Ops returns the recorded operations, e.g. "save red", "load blue".
func (m *MemStore) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ops))
	copy(out, m.ops)
	return out
}

// SetFailSave makes every Save return err (nil to stop failing).
func (m *MemStore) SetFailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

// Ensure MemStore implements Store
var _ Store = (*MemStore)(nil)
