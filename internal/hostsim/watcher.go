package hostsim

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/telephono/persistent-loadout/internal/host"
)

// Notifier receives host messages produced by scenario edits.
type Notifier interface {
	SendMessage(id, param int)
}

// Watcher applies edits of the scenario file to the running simulation.
// A changed livery path is published and followed by a livery-loaded
// message for the user's aircraft, as the sim does when a livery is picked.
type Watcher struct {
	mu      sync.Mutex
	path    string
	mock    *host.Mock
	notify  Notifier
	current Scenario
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching path. initial must be the scenario already
// applied to m.
func NewWatcher(path string, m *host.Mock, initial Scenario, notify Notifier) (*Watcher, error) {
	w := &Watcher{
		path:    filepath.Clean(path),
		mock:    m,
		notify:  notify,
		current: initial,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return nil, err
	}
	w.watcher = watcher
	return w, nil
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == w.path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				if err := w.Reload(); err != nil {
					slog.Warn("hostsim: failed to reload scenario", "path", w.path, "err", err)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("hostsim: watcher error", "err", err)
		}
	}
}

// Reload re-reads the scenario and applies what changed. Fields that did
// not change are left alone so values the plugin restored survive.
func (w *Watcher) Reload() error {
	next, err := LoadScenario(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.current
	w.current = next

	if next.ICAO != prev.ICAO {
		w.mock.SetStringValue(host.DataRefICAO, next.ICAO)
	}
	if next.Model != prev.Model {
		w.mock.SetAircraftModel(next.Model, "Aircraft/"+next.Model)
	}
	if next.StartupRunning != prev.StartupRunning {
		running := 0
		if next.StartupRunning {
			running = 1
		}
		w.mock.SetIntValue(host.DataRefStartupRunning, running)
	}
	if !slices.Equal(next.Fuel, prev.Fuel) {
		next.applyFuel(w.mock)
		slog.Info("hostsim: fuel updated", "tanks", len(next.Fuel))
	}
	if next.Lights != prev.Lights || !switchesEqual(next.Switches, prev.Switches) {
		next.applyLights(w.mock)
		slog.Info("hostsim: switches updated", "switches", next.Switches)
	}
	if next.Livery != prev.Livery {
		w.mock.SetStringValue(host.DataRefLiveryPath, next.Livery)
		slog.Info("hostsim: livery loaded", "path", next.Livery)
		w.notify.SendMessage(host.MsgLiveryLoaded, 0)
	}
	return nil
}

// Close stops the file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func switchesEqual(a, b map[string]float32) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
