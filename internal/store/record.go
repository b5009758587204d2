package store

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/jsonc"

	"github.com/telephono/persistent-loadout/internal/models"
)

var errMissingFuel = errors.New(`record has no "fuel" field`)

// record is the on-disk form of a loadout. Every field is optional on read
// so records written by older versions still load; migrateRecord fills in
// the defaults.
type record struct {
	Fuel         *[]float32 `json:"fuel"`
	LegacyFuel   *[]float32 `json:"m_fuel"`
	Autobrake    *float32   `json:"autobrake"`
	Autothrottle *float32   `json:"autothrottle"`
	HFAntenna    *float32   `json:"hf_antenna"`
	Navigation   *float32   `json:"navigation"`
}

// decodeRecord parses one stored record. Comments and trailing commas from
// hand-edited files are accepted.
func decodeRecord(data []byte) (models.Loadout, error) {
	var rec record
	if err := json.Unmarshal(jsonc.ToJSON(data), &rec); err != nil {
		return models.Loadout{}, err
	}
	return migrateRecord(rec)
}

// encodeRecord serializes a loadout as a pretty-printed record.
func encodeRecord(l models.Loadout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// decodeShared parses the shared layout: a JSON object of livery → record.
// Records are kept raw so entries the caller does not touch are written
// back unchanged.
func decodeShared(data []byte) (map[string]json.RawMessage, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		// a literal "null" document
		entries = make(map[string]json.RawMessage)
	}
	return entries, nil
}
