// Package bridge moves loadouts between the sim's live datarefs and
// models.Loadout values.
package bridge

import (
	"log/slog"

	"github.com/telephono/persistent-loadout/internal/host"
	"github.com/telephono/persistent-loadout/internal/models"
)

// Bridge reads and writes the persisted subset of live state.
type Bridge struct {
	host host.Host
}

// New creates a bridge over the given host.
func New(h host.Host) *Bridge {
	return &Bridge{host: h}
}

// Read captures the current fuel and equipment switch state.
// Any missing or short dataref aborts the read with LiveStateUnavailable so
// a partial loadout is never produced.
func (b *Bridge) Read() (models.Loadout, error) {
	refs, err := host.FindAll(b.host, host.DataRefFuel, host.DataRefGenericLights)
	if err != nil {
		return models.Loadout{}, &models.PluginError{Kind: models.KindLiveStateUnavailable, Message: "live state unavailable", Err: err}
	}

	fuel, err := b.host.Floats(refs[host.DataRefFuel])
	if err != nil {
		return models.Loadout{}, models.LiveStateUnavailable(host.DataRefFuel, err)
	}
	lights, err := b.host.Floats(refs[host.DataRefGenericLights])
	if err != nil {
		return models.Loadout{}, models.LiveStateUnavailable(host.DataRefGenericLights, err)
	}
	if len(lights) <= MaxSwitchIndex() {
		return models.Loadout{}, models.LiveStateUnavailable(host.DataRefGenericLights,
			&ShortArrayError{DataRef: host.DataRefGenericLights, Expected: MaxSwitchIndex() + 1, Found: len(lights)})
	}

	return loadoutFromLive(fuel, lights), nil
}

// Write restores a loadout into the sim.
//
// Fuel and equipment are independent: a missing or short generic lights
// array only skips the switch write. Fuel is written as the overlapping
// prefix of the stored tanks and the sim's array, which is never resized.
func (b *Bridge) Write(l models.Loadout) error {
	fuelRef, err := b.host.Find(host.DataRefFuel)
	if err != nil {
		return models.LiveStateUnavailable(host.DataRefFuel, err)
	}

	b.writeSwitches(l)

	current, err := b.host.Floats(fuelRef)
	if err != nil {
		return models.LiveStateUnavailable(host.DataRefFuel, err)
	}
	n := min(len(current), len(l.Fuel))
	if len(current) != len(l.Fuel) {
		slog.Warn("bridge: fuel tank count differs, writing overlapping tanks only",
			"stored", len(l.Fuel), "sim", len(current), "written", n)
	}
	if n == 0 {
		return nil
	}
	if err := b.host.SetFloats(fuelRef, l.Fuel[:n]); err != nil {
		return models.LiveStateUnavailable(host.DataRefFuel, err)
	}
	return nil
}

func (b *Bridge) writeSwitches(l models.Loadout) {
	ref, err := b.host.Find(host.DataRefGenericLights)
	if err != nil {
		slog.Warn("bridge: equipment switches unavailable, skipping", "err", err)
		return
	}
	lights, err := b.host.Floats(ref)
	if err != nil {
		slog.Warn("bridge: could not read equipment switches, skipping", "err", err)
		return
	}
	if len(lights) <= MaxSwitchIndex() {
		slog.Warn("bridge: equipment switch array too short, skipping",
			"dataref", host.DataRefGenericLights, "expected", MaxSwitchIndex()+1, "found", len(lights))
		return
	}
	if err := b.host.SetFloats(ref, applySwitches(lights, l)); err != nil {
		slog.Warn("bridge: equipment switch write failed", "err", err)
	}
}
