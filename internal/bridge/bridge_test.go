package bridge_test

import (
	"errors"
	"testing"

	"github.com/telephono/persistent-loadout/internal/bridge"
	"github.com/telephono/persistent-loadout/internal/host"
	"github.com/telephono/persistent-loadout/internal/models"
)

func lightsWith(n int, vals map[int]float32) []float32 {
	lights := make([]float32, n)
	for i, v := range vals {
		lights[i] = v
	}
	return lights
}

func TestRead_FullyPopulated(t *testing.T) {
	m := host.NewMock()
	m.SetFloatArray(host.DataRefFuel, []float32{100, 200, 300, 0, 0, 0, 0, 0, 4500.25})
	m.SetFloatArray(host.DataRefGenericLights, lightsWith(128, map[int]float32{49: 1, 50: 2, 51: 1, 84: 1}))

	got, err := bridge.New(m).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := models.Loadout{
		Fuel:         []float32{100, 200, 300, 0, 0, 0, 0, 0, 4500.25},
		Autothrottle: 1,
		Autobrake:    2,
		HFAntenna:    1,
		Navigation:   1,
	}
	if !got.Equal(want) {
		t.Errorf("Read = %+v, want %+v", got, want)
	}
}

func TestRead_MissingDataRef(t *testing.T) {
	for _, name := range []string{host.DataRefFuel, host.DataRefGenericLights} {
		m := host.NewMock()
		m.Remove(name)
		_, err := bridge.New(m).Read()
		if !errors.Is(err, models.ErrLiveStateUnavailable) {
			t.Errorf("Read without %s: err = %v, want LiveStateUnavailable", name, err)
		}
		if !errors.Is(err, host.ErrDataRefNotFound) {
			t.Errorf("Read without %s: cause should be ErrDataRefNotFound, got %v", name, err)
		}
	}
}

func TestRead_ShortSwitchArray(t *testing.T) {
	m := host.NewMock()
	m.SetFloatArray(host.DataRefGenericLights, make([]float32, 64))

	_, err := bridge.New(m).Read()
	if !errors.Is(err, models.ErrLiveStateUnavailable) {
		t.Fatalf("err = %v, want LiveStateUnavailable", err)
	}
	var short *bridge.ShortArrayError
	if !errors.As(err, &short) || short.Found != 64 || short.Expected != 85 {
		t.Errorf("ShortArrayError = %+v", short)
	}
}

func TestWrite_RestoresFuelAndSwitches(t *testing.T) {
	m := host.NewMock()
	lights := lightsWith(128, map[int]float32{0: 1, 127: 1})
	m.SetFloatArray(host.DataRefGenericLights, lights)

	l := models.Loadout{
		Fuel:         []float32{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Autothrottle: 1,
		Autobrake:    3,
		HFAntenna:    1,
		Navigation:   2,
	}
	if err := bridge.New(m).Write(l); err != nil {
		t.Fatalf("Write: %v", err)
	}

	fuel := m.FloatArray(host.DataRefFuel)
	for i, q := range l.Fuel {
		if fuel[i] != q {
			t.Errorf("fuel[%d] = %v, want %v", i, fuel[i], q)
		}
	}
	got := m.FloatArray(host.DataRefGenericLights)
	if len(got) != 128 {
		t.Fatalf("lights resized to %d", len(got))
	}
	for idx, want := range map[int]float32{49: 1, 50: 3, 51: 1, 84: 2, 0: 1, 127: 1} {
		if got[idx] != want {
			t.Errorf("lights[%d] = %v, want %v", idx, got[idx], want)
		}
	}
}

func TestWrite_FuelLengthMismatchWritesPrefix(t *testing.T) {
	tests := []struct {
		name   string
		stored []float32
		want   []float32
	}{
		{"stored shorter", []float32{5, 6}, []float32{5, 6, 30, 40}},
		{"stored longer", []float32{5, 6, 7, 8, 9, 10}, []float32{5, 6, 7, 8}},
		{"stored empty", nil, []float32{10, 20, 30, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := host.NewMock()
			m.SetFloatArray(host.DataRefFuel, []float32{10, 20, 30, 40})

			if err := bridge.New(m).Write(models.Loadout{Fuel: tt.stored}); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got := m.FloatArray(host.DataRefFuel)
			if len(got) != len(tt.want) {
				t.Fatalf("fuel array resized: %v", got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("fuel = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestWrite_ShortSwitchArraySkipsSwitchesButWritesFuel(t *testing.T) {
	m := host.NewMock()
	m.SetFloatArray(host.DataRefGenericLights, make([]float32, 80))

	l := models.Loadout{Fuel: []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, Autobrake: 2, Navigation: 1}
	if err := bridge.New(m).Write(l); err != nil {
		t.Fatalf("Write: %v", err)
	}

	writes := m.Writes()
	if len(writes) != 1 || writes[0].Name != host.DataRefFuel {
		t.Fatalf("writes = %+v, want only the fuel write", writes)
	}
	for _, v := range m.FloatArray(host.DataRefGenericLights) {
		if v != 0 {
			t.Fatal("short switch array was modified")
		}
	}
	if got := m.FloatArray(host.DataRefFuel); got[8] != 9 {
		t.Errorf("fuel = %v", got)
	}
}

func TestWrite_MissingSwitchArrayStillWritesFuel(t *testing.T) {
	m := host.NewMock()
	m.Remove(host.DataRefGenericLights)

	if err := bridge.New(m).Write(models.Loadout{Fuel: []float32{42}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := m.FloatArray(host.DataRefFuel); got[0] != 42 {
		t.Errorf("fuel[0] = %v, want 42", got[0])
	}
}

func TestWrite_MissingFuelFails(t *testing.T) {
	m := host.NewMock()
	m.Remove(host.DataRefFuel)

	err := bridge.New(m).Write(models.Loadout{Fuel: []float32{1}, Autobrake: 1})
	if !errors.Is(err, models.ErrLiveStateUnavailable) {
		t.Fatalf("err = %v, want LiveStateUnavailable", err)
	}
	if len(m.Writes()) != 0 {
		t.Errorf("no dataref should be written when fuel is missing, got %+v", m.Writes())
	}
}

func TestMaxSwitchIndex(t *testing.T) {
	if got := bridge.MaxSwitchIndex(); got != 84 {
		t.Errorf("MaxSwitchIndex = %d, want 84", got)
	}
	seen := map[int]string{}
	for _, s := range bridge.Switches {
		if other, dup := seen[s.Index]; dup {
			t.Errorf("index %d used by %s and %s", s.Index, other, s.Name)
		}
		seen[s.Index] = s.Name
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	src := host.NewMock()
	src.SetFloatArray(host.DataRefFuel, []float32{0.1, 0.2, 0.3, 1e6, 0, 0, 0, 0, 3.4028235e38})
	src.SetFloatArray(host.DataRefGenericLights, lightsWith(128, map[int]float32{49: 1, 50: 4, 51: 1, 84: 1}))

	l, err := bridge.New(src).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	dst := host.NewMock()
	if err := bridge.New(dst).Write(l); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := bridge.New(dst).Read()
	if err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if !back.Equal(l) {
		t.Errorf("round trip = %+v, want %+v", back, l)
	}
}
