package models_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/telephono/persistent-loadout/internal/models"
)

func TestNewLiveryKey(t *testing.T) {
	tests := []struct {
		path string
		want models.LiveryKey
	}{
		{"", models.DefaultLivery},
		{"   ", models.DefaultLivery},
		{"/", models.DefaultLivery},
		{"Red_Livery", "red_livery"},
		{"Aircraft/B720/liveries/Red_Livery", "red_livery"},
		{"Aircraft/B720/liveries/Red_Livery/", "red_livery"},
		{`Aircraft\B720\liveries\Pan Am`, "pan am"},
		{"liveries/DEFAULT", models.DefaultLivery},
		{".", models.DefaultLivery},
		{"..", models.DefaultLivery},
		{"liveries/..", models.DefaultLivery},
		{`liveries\..\`, models.DefaultLivery},
		{"liveries/./Red", "red"},
		{"...", "..."},
	}
	for _, tt := range tests {
		if got := models.NewLiveryKey(tt.path); got != tt.want {
			t.Errorf("NewLiveryKey(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLiveryKey_Equal(t *testing.T) {
	if !models.LiveryKey("Red_Livery").Equal("red_livery") {
		t.Error(`"Red_Livery" should equal "red_livery"`)
	}
	if models.NewLiveryKey("Red_Livery") != models.NewLiveryKey("red_livery") {
		t.Error("normalized keys should be identical")
	}
	if models.LiveryKey("red").Equal("blue") {
		t.Error(`"red" should not equal "blue"`)
	}
	if models.NewLiveryKey("") != "Default" {
		t.Errorf("empty path = %q, want Default", models.NewLiveryKey(""))
	}
}

func TestLoadout_CloneDoesNotAlias(t *testing.T) {
	orig := models.Loadout{Fuel: []float32{1, 2, 3}, Autobrake: 2}
	cp := orig.Clone()
	cp.Fuel[0] = 99

	if orig.Fuel[0] != 1 {
		t.Errorf("Clone aliases fuel slice: orig.Fuel[0] = %v", orig.Fuel[0])
	}
	if !orig.Equal(models.Loadout{Fuel: []float32{1, 2, 3}, Autobrake: 2}) {
		t.Error("original loadout was modified")
	}
}

func TestLoadout_EqualAndEmpty(t *testing.T) {
	a := models.Loadout{Fuel: []float32{1, 2}, Navigation: 1}
	b := a.Clone()
	if !a.Equal(b) {
		t.Error("clone should be equal")
	}
	b.HFAntenna = 1
	if a.Equal(b) {
		t.Error("different hf_antenna should not be equal")
	}
	if a.IsEmpty() {
		t.Error("loadout with tanks reported empty")
	}
	if !(models.Loadout{}).IsEmpty() {
		t.Error("zero loadout should be empty")
	}
	if got := a.TotalFuel(); got != 3 {
		t.Errorf("TotalFuel = %v, want 3", got)
	}
}

func TestLoadout_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(models.Loadout{Fuel: []float32{1}})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	for _, key := range []string{"fuel", "autobrake", "autothrottle", "hf_antenna", "navigation"} {
		if _, ok := m[key]; !ok {
			t.Errorf("loadout JSON missing %q", key)
		}
	}
}

func TestPluginError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("restore: %w", models.LiveStateUnavailable("sim/flightmodel/weight/m_fuel", cause))

	if !errors.Is(err, models.ErrLiveStateUnavailable) {
		t.Error("wrapped error should match ErrLiveStateUnavailable")
	}
	if errors.Is(err, models.ErrNotColdAndDark) {
		t.Error("wrapped error should not match ErrNotColdAndDark")
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}

	var pe *models.PluginError
	if !errors.As(err, &pe) || pe.Kind != models.KindLiveStateUnavailable {
		t.Errorf("errors.As kind = %v", pe)
	}
}

func TestPluginError_Messages(t *testing.T) {
	tests := []struct {
		err  *models.PluginError
		kind models.ErrorKind
		want string
	}{
		{models.UnsupportedAircraft("C172"), models.KindUnsupportedAircraft, `aircraft "C172" not supported`},
		{models.NotColdAndDark(), models.KindNotColdAndDark, "detected startup with engines running"},
		{models.IOError("/x", errors.New("denied")), models.KindIO, "i/o on /x: denied"},
	}
	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
		}
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestEventKind_Valid(t *testing.T) {
	for _, k := range []models.EventKind{models.EventEnabled, models.EventSaved, models.EventLiveryChanged, models.EventDisabled} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	for _, k := range []models.EventKind{"", "status", "SAVED"} {
		if k.Valid() {
			t.Errorf("%q should not be valid", k)
		}
	}
}
