// Package hostsim runs the loadout engine against a simulated host. A YAML
// scenario file describes the aircraft and its live state; edits to the file
// are applied while the simulation runs.
package hostsim

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/telephono/persistent-loadout/internal/bridge"
	"github.com/telephono/persistent-loadout/internal/host"
)

// Scenario describes the simulated aircraft.
//
//	icao: B720
//	model: Boeing_720.acf
//	livery: Aircraft/Shenshee B720/liveries/Pan_Am
//	startup_running: false
//	fuel: [4500, 4500, 2000, 2000, 0, 0, 0, 0, 0]
//	switches: {autobrake: 2, navigation: 1}
type Scenario struct {
	ICAO           string             `yaml:"icao"`
	Model          string             `yaml:"model"`
	Livery         string             `yaml:"livery"`
	StartupRunning bool               `yaml:"startup_running"`
	Fuel           []float32          `yaml:"fuel"`
	Lights         int                `yaml:"lights"` // generic lights array length
	Switches       map[string]float32 `yaml:"switches"`
}

// DefaultScenario is a cold and dark Boeing 720 in its default livery.
func DefaultScenario() Scenario {
	return Scenario{
		ICAO:   "B720",
		Model:  "Boeing_720.acf",
		Fuel:   make([]float32, host.FuelTanks),
		Lights: host.GenericLightsLen,
	}
}

// LoadScenario reads a scenario file. Fields the file leaves out keep the
// values of DefaultScenario.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("hostsim: read scenario: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("hostsim: %s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (Scenario, error) {
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, err
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate rejects switch names the engine does not know and negative sizes.
func (s Scenario) Validate() error {
	var errs []error
	if s.Lights < 0 {
		errs = append(errs, fmt.Errorf("lights must not be negative, got %d", s.Lights))
	}
	for name := range s.Switches {
		if _, ok := switchIndex(name); !ok {
			errs = append(errs, fmt.Errorf("unknown switch %q", name))
		}
	}
	return errors.Join(errs...)
}

// Apply publishes the whole scenario on the mock host.
func (s Scenario) Apply(m *host.Mock) {
	m.SetStringValue(host.DataRefICAO, s.ICAO)
	m.SetAircraftModel(s.Model, "Aircraft/"+s.Model)
	m.SetStringValue(host.DataRefLiveryPath, s.Livery)
	running := 0
	if s.StartupRunning {
		running = 1
	}
	m.SetIntValue(host.DataRefStartupRunning, running)
	s.applyFuel(m)
	s.applyLights(m)
}

func (s Scenario) applyFuel(m *host.Mock) {
	m.SetFloatArray(host.DataRefFuel, s.Fuel)
}

func (s Scenario) applyLights(m *host.Mock) {
	lights := make([]float32, s.Lights)
	for name, v := range s.Switches {
		if i, ok := switchIndex(name); ok && i < len(lights) {
			lights[i] = v
		}
	}
	m.SetFloatArray(host.DataRefGenericLights, lights)
}

func switchIndex(name string) (int, bool) {
	i := slices.IndexFunc(bridge.Switches, func(s bridge.Switch) bool { return s.Name == name })
	if i < 0 {
		return 0, false
	}
	return bridge.Switches[i].Index, true
}
