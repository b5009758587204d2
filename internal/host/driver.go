// Package host provides the abstraction over the simulator's live state:
// datarefs looked up by name, the aircraft model query, and the flight loop
// scheduling primitive. It defines the Host interface and the in-memory
// Mock used by tests and the simulator harness.
package host

import (
	"errors"
	"fmt"
)

var (
	// ErrDataRefNotFound is returned by Find when the sim exposes no dataref
	// with the requested name.
	ErrDataRefNotFound = errors.New("dataref not found")
	// ErrNotWritable is returned when writing a read-only dataref.
	ErrNotWritable = errors.New("dataref not writable")
	// ErrWrongType is returned when a dataref is accessed as the wrong type.
	ErrWrongType = errors.New("dataref has a different type")
)

// DataRef is an opaque handle to a live state cell returned by Host.Find.
type DataRef struct {
	name string
	id   uintptr
}

// NewDataRef creates a handle. Host implementations use id to carry their
// native reference.
func NewDataRef(name string, id uintptr) DataRef {
	return DataRef{name: name, id: id}
}

// Name returns the dataref's hierarchical name.
func (d DataRef) Name() string { return d.name }

// ID returns the implementation-specific reference.
func (d DataRef) ID() uintptr { return d.id }

func (d DataRef) String() string { return d.name }

// Host is the live-state interface of the simulator.
// Calls are made from the sim's main thread only.
type Host interface {
	// Find looks up a dataref by name. Returns ErrDataRefNotFound if the sim
	// does not publish it.
	Find(name string) (DataRef, error)

	// Floats reads a float array dataref.
	Floats(ref DataRef) ([]float32, error)

	// SetFloats writes vals into a float array dataref starting at index 0.
	// Only min(len(vals), len(array)) elements are written; the array is
	// never resized.
	SetFloats(ref DataRef, vals []float32) error

	// String reads a byte array dataref as a NUL-terminated string.
	String(ref DataRef) (string, error)

	// Int reads an integer dataref.
	Int(ref DataRef) (int, error)

	// AircraftModel returns the .acf file name and full path of the
	// aircraft loaded at index (0 = user's aircraft).
	AircraftModel(index int) (file, path string, err error)
}

// FlightLoop is the sim's callback scheduler as seen by the engine:
// run the callback once after n frames, then stay idle until rescheduled.
type FlightLoop interface {
	ScheduleAfterLoops(n int)
	Deactivate()
}

// MsgLiveryLoaded is the message the sim sends after a livery was loaded.
// Its parameter is the index of the aircraft whose livery changed.
const MsgLiveryLoaded = 108

// FindAll resolves several datarefs at once. The error names the first
// dataref that could not be found.
func FindAll(h Host, names ...string) (map[string]DataRef, error) {
	refs := make(map[string]DataRef, len(names))
	for _, name := range names {
		ref, err := h.Find(name)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", name, err)
		}
		refs[name] = ref
	}
	return refs, nil
}
