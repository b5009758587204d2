package bridge

import "github.com/telephono/persistent-loadout/internal/models"

// Switch is one equipment switch stored at a fixed index of the aircraft's
// generic lights array.
type Switch struct {
	Name  string
	Index int
	get   func(models.Loadout) float32
	set   func(*models.Loadout, float32)
}

// Switches maps each persisted switch to its generic_lights_switch index.
// Index corrections for new aircraft builds belong here.
var Switches = []Switch{
	{
		Name: "autothrottle", Index: 49,
		get: func(l models.Loadout) float32 { return l.Autothrottle },
		set: func(l *models.Loadout, v float32) { l.Autothrottle = v },
	},
	{
		Name: "autobrake", Index: 50,
		get: func(l models.Loadout) float32 { return l.Autobrake },
		set: func(l *models.Loadout, v float32) { l.Autobrake = v },
	},
	{
		Name: "hf_antenna", Index: 51,
		get: func(l models.Loadout) float32 { return l.HFAntenna },
		set: func(l *models.Loadout, v float32) { l.HFAntenna = v },
	},
	{
		Name: "navigation", Index: 84,
		get: func(l models.Loadout) float32 { return l.Navigation },
		set: func(l *models.Loadout, v float32) { l.Navigation = v },
	},
}

// MaxSwitchIndex is the highest generic lights index the engine touches.
func MaxSwitchIndex() int {
	highest := 0
	for _, s := range Switches {
		if s.Index > highest {
			highest = s.Index
		}
	}
	return highest
}

// loadoutFromLive builds a loadout from the live fuel and switch arrays.
// The caller guarantees lights is long enough for every switch index.
func loadoutFromLive(fuel, lights []float32) models.Loadout {
	l := models.Loadout{Fuel: make([]float32, len(fuel))}
	copy(l.Fuel, fuel)
	for _, s := range Switches {
		s.set(&l, lights[s.Index])
	}
	return l
}

// applySwitches returns a copy of lights with the loadout's switches set.
func applySwitches(lights []float32, l models.Loadout) []float32 {
	out := make([]float32, len(lights))
	copy(out, lights)
	for _, s := range Switches {
		out[s.Index] = s.get(l)
	}
	return out
}
