package host_test

import (
	"errors"
	"testing"

	"github.com/telephono/persistent-loadout/internal/host"
)

func TestMock_DefaultDataRefs(t *testing.T) {
	m := host.NewMock()

	refs, err := host.FindAll(m,
		host.DataRefFuel,
		host.DataRefGenericLights,
		host.DataRefLiveryPath,
		host.DataRefICAO,
		host.DataRefStartupRunning,
	)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}

	fuel, err := m.Floats(refs[host.DataRefFuel])
	if err != nil {
		t.Fatalf("Floats(fuel): %v", err)
	}
	if len(fuel) != host.FuelTanks {
		t.Errorf("fuel tanks = %d, want %d", len(fuel), host.FuelTanks)
	}
	icao, err := m.String(refs[host.DataRefICAO])
	if err != nil || icao != "B720" {
		t.Errorf("ICAO = %q, %v; want B720", icao, err)
	}
	running, err := m.Int(refs[host.DataRefStartupRunning])
	if err != nil || running != 0 {
		t.Errorf("startup_running = %d, %v; want 0", running, err)
	}
}

func TestMock_FindMissing(t *testing.T) {
	m := host.NewMock()
	m.Remove(host.DataRefFuel)

	if _, err := m.Find(host.DataRefFuel); !errors.Is(err, host.ErrDataRefNotFound) {
		t.Errorf("Find removed dataref: err = %v, want ErrDataRefNotFound", err)
	}
	if _, err := host.FindAll(m, host.DataRefICAO, host.DataRefFuel); !errors.Is(err, host.ErrDataRefNotFound) {
		t.Errorf("FindAll: err = %v, want ErrDataRefNotFound", err)
	}
}

func TestMock_SetFloatsNeverResizes(t *testing.T) {
	m := host.NewMock()
	m.SetFloatArray("test/array", []float32{1, 2, 3})
	ref, err := m.Find("test/array")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	if err := m.SetFloats(ref, []float32{9, 9, 9, 9, 9}); err != nil {
		t.Fatalf("SetFloats(longer): %v", err)
	}
	if got := m.FloatArray("test/array"); len(got) != 3 || got[2] != 9 {
		t.Errorf("after longer write = %v, want [9 9 9]", got)
	}

	if err := m.SetFloats(ref, []float32{7}); err != nil {
		t.Fatalf("SetFloats(shorter): %v", err)
	}
	if got := m.FloatArray("test/array"); len(got) != 3 || got[0] != 7 || got[1] != 9 {
		t.Errorf("after shorter write = %v, want [7 9 9]", got)
	}

	writes := m.Writes()
	if len(writes) != 2 || len(writes[0].Values) != 3 || len(writes[1].Values) != 1 {
		t.Errorf("write log = %+v", writes)
	}
}

func TestMock_WrongTypeAndReadOnly(t *testing.T) {
	m := host.NewMock()
	ref, _ := m.Find(host.DataRefICAO)

	if _, err := m.Floats(ref); !errors.Is(err, host.ErrWrongType) {
		t.Errorf("Floats(string ref) err = %v, want ErrWrongType", err)
	}
	if err := m.SetFloats(ref, []float32{1}); !errors.Is(err, host.ErrWrongType) {
		t.Errorf("SetFloats(string ref) err = %v, want ErrWrongType", err)
	}
}

func TestMock_FailWrite(t *testing.T) {
	m := host.NewMock()
	m.SetFailWrite(true)
	ref, _ := m.Find(host.DataRefFuel)
	if err := m.SetFloats(ref, []float32{1}); err == nil {
		t.Error("expected write failure")
	}
	if len(m.Writes()) != 0 {
		t.Error("failed write should not be logged")
	}
}

func TestMock_StringIsNulTerminated(t *testing.T) {
	m := host.NewMock()
	m.SetStringValue(host.DataRefLiveryPath, "liveries/Red\x00\x00garbage")
	ref, _ := m.Find(host.DataRefLiveryPath)
	got, err := m.String(ref)
	if err != nil || got != "liveries/Red" {
		t.Errorf("String = %q, %v; want liveries/Red", got, err)
	}
}

func TestFrameLoop_FiresAfterFrames(t *testing.T) {
	calls := 0
	var loop *host.FrameLoop
	loop = host.NewFrameLoop(func() {
		calls++
		loop.Deactivate()
	})

	if loop.Tick() {
		t.Fatal("idle loop should not fire")
	}

	loop.ScheduleAfterLoops(3)
	for i := 0; i < 2; i++ {
		if loop.Tick() {
			t.Fatalf("fired early at frame %d", i+1)
		}
	}
	if !loop.Tick() {
		t.Fatal("expected callback on frame 3")
	}
	if loop.Active() {
		t.Error("loop should be inactive after callback deactivated it")
	}
	for i := 0; i < 5; i++ {
		loop.Tick()
	}
	if calls != 1 || loop.Fired() != 1 {
		t.Errorf("calls = %d, fired = %d; want 1", calls, loop.Fired())
	}
}

func TestFrameLoop_KeepsFiringUntilDeactivated(t *testing.T) {
	loop := host.NewFrameLoop(nil)
	calls := 0
	loop.SetCallback(func() { calls++ })
	loop.ScheduleAfterLoops(1)
	for i := 0; i < 4; i++ {
		loop.Tick()
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	loop.Deactivate()
	loop.Tick()
	if calls != 4 {
		t.Errorf("calls after Deactivate = %d, want 4", calls)
	}
}
