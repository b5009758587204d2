package store

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/telephono/persistent-loadout/internal/models"
)

// recordDefaults holds the value of every optional field that is missing
// from a stored record. Fields added in later versions default here.
var recordDefaults = models.Loadout{
	Autobrake:    0.0,
	Autothrottle: 0.0,
	HFAntenna:    0.0,
	Navigation:   0.0,
}

// migrateRecord turns a parsed record into a loadout, filling in defaults
// for fields that older files do not have.
func migrateRecord(rec record) (models.Loadout, error) {
	fuel := rec.Fuel
	if fuel == nil {
		// files written by the first release used the dataref's name
		fuel = rec.LegacyFuel
	}
	if fuel == nil {
		return models.Loadout{}, errMissingFuel
	}

	l := recordDefaults.Clone()
	l.Fuel = make([]float32, len(*fuel))
	copy(l.Fuel, *fuel)
	if rec.Autobrake != nil {
		l.Autobrake = *rec.Autobrake
	}
	if rec.Autothrottle != nil {
		l.Autothrottle = *rec.Autothrottle
	}
	if rec.HFAntenna != nil {
		l.HFAntenna = *rec.HFAntenna
	}
	if rec.Navigation != nil {
		l.Navigation = *rec.Navigation
	}
	return l, nil
}

// normalizeKeys re-keys a shared map by normalized livery key. Older files
// may hold keys in their original case; when two keys collide, the
// lexically first original key wins.
func normalizeKeys(entries map[string]json.RawMessage) map[models.LiveryKey]json.RawMessage {
	orig := make([]string, 0, len(entries))
	for k := range entries {
		orig = append(orig, k)
	}
	sort.Strings(orig)

	out := make(map[models.LiveryKey]json.RawMessage, len(entries))
	for _, k := range orig {
		key := models.NewLiveryKey(k)
		if _, dup := out[key]; dup {
			slog.Warn("store: duplicate livery key after normalization, keeping first", "key", k, "livery", key)
			continue
		}
		out[key] = entries[k]
	}
	return out
}
