package host

import (
	"fmt"
	"strings"
	"sync"
)

type cellKind int

const (
	kindFloats cellKind = iota
	kindString
	kindInt
)

type cell struct {
	kind     cellKind
	floats   []float32
	str      string
	num      int
	writable bool
}

// Write records a single SetFloats call made against the mock.
type Write struct {
	Name   string
	Values []float32
}

// Mock is a thread-safe in-memory Host for testing and the simulator harness.
// NewMock publishes the datarefs of a cold & dark Boeing 720 with the
// default livery.
type Mock struct {
	mu        sync.Mutex
	cells     map[string]*cell
	ids       map[string]uintptr
	nextID    uintptr
	acfFile   string
	acfPath   string
	failWrite bool
	writes    []Write
}

// NewMock creates a mock host with the engine's datarefs pre-published.
func NewMock() *Mock {
	m := &Mock{
		cells:   make(map[string]*cell),
		ids:     make(map[string]uintptr),
		acfFile: "Boeing_720.acf",
		acfPath: "Aircraft/Shenshee B720/Boeing_720.acf",
	}
	m.SetFloatArray(DataRefFuel, make([]float32, FuelTanks))
	m.SetFloatArray(DataRefGenericLights, make([]float32, GenericLightsLen))
	m.SetStringValue(DataRefLiveryPath, "")
	m.SetStringValue(DataRefICAO, "B720")
	m.SetIntValue(DataRefStartupRunning, 0)
	return m
}

// SetFloatArray publishes (or replaces) a writable float array dataref.
func (m *Mock) SetFloatArray(name string, vals []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]float32, len(vals))
	copy(cp, vals)
	m.cells[name] = &cell{kind: kindFloats, floats: cp, writable: true}
}

// SetStringValue publishes (or replaces) a read-only string dataref.
func (m *Mock) SetStringValue(name, s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[name] = &cell{kind: kindString, str: s}
}

// SetIntValue publishes (or replaces) a read-only int dataref.
func (m *Mock) SetIntValue(name string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[name] = &cell{kind: kindInt, num: n}
}

// Remove unpublishes a dataref so Find returns ErrDataRefNotFound.
func (m *Mock) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cells, name)
}

// SetAircraftModel sets what AircraftModel(0) reports.
func (m *Mock) SetAircraftModel(file, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acfFile = file
	m.acfPath = path
}

// SetFailWrite configures the mock to fail all write operations.
func (m *Mock) SetFailWrite(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = fail
}

// FloatArray returns a copy of a float array dataref, or nil.
func (m *Mock) FloatArray(name string) []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cells[name]
	if !ok || c.kind != kindFloats {
		return nil
	}
	cp := make([]float32, len(c.floats))
	copy(cp, c.floats)
	return cp
}

// Writes returns every SetFloats call made so far, in order.
func (m *Mock) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Write, len(m.writes))
	copy(out, m.writes)
	return out
}

// ResetWrites clears the write log.
func (m *Mock) ResetWrites() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = nil
}

func (m *Mock) Find(name string) (DataRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cells[name]; !ok {
		return DataRef{}, fmt.Errorf("%w: %s", ErrDataRefNotFound, name)
	}
	id, ok := m.ids[name]
	if !ok {
		m.nextID++
		id = m.nextID
		m.ids[name] = id
	}
	return NewDataRef(name, id), nil
}

func (m *Mock) Floats(ref DataRef) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lookup(ref, kindFloats)
	if err != nil {
		return nil, err
	}
	cp := make([]float32, len(c.floats))
	copy(cp, c.floats)
	return cp, nil
}

func (m *Mock) SetFloats(ref DataRef, vals []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return fmt.Errorf("mock: write failure configured for %s", ref.Name())
	}
	c, err := m.lookup(ref, kindFloats)
	if err != nil {
		return err
	}
	if !c.writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, ref.Name())
	}
	n := copy(c.floats, vals)
	written := make([]float32, n)
	copy(written, vals[:n])
	m.writes = append(m.writes, Write{Name: ref.Name(), Values: written})
	return nil
}

func (m *Mock) String(ref DataRef) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lookup(ref, kindString)
	if err != nil {
		return "", err
	}
	// byte datarefs are NUL padded
	if i := strings.IndexByte(c.str, 0); i >= 0 {
		return c.str[:i], nil
	}
	return c.str, nil
}

func (m *Mock) Int(ref DataRef) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.lookup(ref, kindInt)
	if err != nil {
		return 0, err
	}
	return c.num, nil
}

func (m *Mock) AircraftModel(index int) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index != 0 {
		return "", "", fmt.Errorf("mock: no aircraft at index %d", index)
	}
	return m.acfFile, m.acfPath, nil
}

func (m *Mock) lookup(ref DataRef, kind cellKind) (*cell, error) {
	c, ok := m.cells[ref.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDataRefNotFound, ref.Name())
	}
	if c.kind != kind {
		return nil, fmt.Errorf("%w: %s", ErrWrongType, ref.Name())
	}
	return c, nil
}

// Ensure Mock implements Host
var _ Host = (*Mock)(nil)
