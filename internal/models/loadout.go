// Package models defines the data structures shared by the loadout engine.
// JSON field names match the files written by earlier plugin versions.
package models

// Loadout is a persisted snapshot of one livery's configuration: fuel per
// tank plus the equipment switches the aircraft keeps in its generic
// lights array.
//
// A Loadout is built either from live state (every field read from the sim)
// or from a stored record with per-field defaults. It is never modified
// afterwards; use Clone to hand it across package boundaries.
type Loadout struct {
	Fuel         []float32 `json:"fuel" yaml:"fuel,flow"`
	Autobrake    float32   `json:"autobrake" yaml:"autobrake"`
	Autothrottle float32   `json:"autothrottle" yaml:"autothrottle"`
	HFAntenna    float32   `json:"hf_antenna" yaml:"hf_antenna"`
	Navigation   float32   `json:"navigation" yaml:"navigation"`
}

// Clone returns a deep copy of the loadout.
func (l Loadout) Clone() Loadout {
	cp := l
	if l.Fuel != nil {
		cp.Fuel = make([]float32, len(l.Fuel))
		copy(cp.Fuel, l.Fuel)
	}
	return cp
}

// IsEmpty reports whether the loadout carries no fuel tanks.
func (l Loadout) IsEmpty() bool { return len(l.Fuel) == 0 }

// Equal reports whether two loadouts hold identical values.
func (l Loadout) Equal(o Loadout) bool {
	if len(l.Fuel) != len(o.Fuel) {
		return false
	}
	for i := range l.Fuel {
		if l.Fuel[i] != o.Fuel[i] {
			return false
		}
	}
	return l.Autobrake == o.Autobrake &&
		l.Autothrottle == o.Autothrottle &&
		l.HFAntenna == o.HFAntenna &&
		l.Navigation == o.Navigation
}

// TotalFuel sums all tank quantities.
func (l Loadout) TotalFuel() float32 {
	var sum float32
	for _, q := range l.Fuel {
		sum += q
	}
	return sum
}
