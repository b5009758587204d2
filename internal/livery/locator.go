// Package livery resolves which livery is active and where its loadout is
// stored.
package livery

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/telephono/persistent-loadout/internal/host"
	"github.com/telephono/persistent-loadout/internal/models"
	"github.com/telephono/persistent-loadout/internal/store"
)

// Options configures a Locator.
type Options struct {
	// BaseDir is <output_root>/<plugin_dir>.
	BaseDir  string
	FileName string
	Layout   store.Layout
	// ICAO lists accepted acf_ICAO values. Empty accepts any.
	ICAO []string
	// Models maps .acf file stems to their storage directory.
	Models map[string]string
}

// Locator derives livery keys and storage locations from the sim.
type Locator struct {
	host host.Host
	opts Options
}

// New creates a locator.
func New(h host.Host, opts Options) *Locator {
	return &Locator{host: h, opts: opts}
}

// Current returns the key of the user aircraft's active livery.
func (l *Locator) Current() (models.LiveryKey, error) {
	path, err := l.readString(host.DataRefLiveryPath)
	if err != nil {
		return "", err
	}
	return models.NewLiveryKey(path), nil
}

// CheckAircraft verifies the loaded aircraft's ICAO code is supported.
func (l *Locator) CheckAircraft() error {
	icao, err := l.readString(host.DataRefICAO)
	if err != nil {
		return err
	}
	if len(l.opts.ICAO) > 0 && !slices.Contains(l.opts.ICAO, icao) {
		return models.UnsupportedAircraft(icao)
	}
	return nil
}

// ModelDir returns the storage directory name of the user's aircraft model,
// e.g. "720" for Boeing_720.acf.
func (l *Locator) ModelDir() (string, error) {
	file, _, err := l.host.AircraftModel(0)
	if err != nil {
		return "", models.LiveStateUnavailable("aircraft model 0", err)
	}
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	dir, ok := l.opts.Models[stem]
	if !ok {
		return "", models.UnsupportedAircraft(stem)
	}
	return dir, nil
}

// StorageDir returns <base dir>/<model dir>.
func (l *Locator) StorageDir() (string, error) {
	modelDir, err := l.ModelDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(l.opts.BaseDir, modelDir), nil
}

// Location returns the file that holds key's loadout.
func (l *Locator) Location(key models.LiveryKey) (string, error) {
	dir, err := l.StorageDir()
	if err != nil {
		return "", err
	}
	return store.PathFor(l.opts.Layout, dir, l.opts.FileName, key), nil
}

// Store opens the store for the current aircraft model.
func (l *Locator) Store() (store.Store, error) {
	dir, err := l.StorageDir()
	if err != nil {
		return nil, err
	}
	return store.Open(l.opts.Layout, dir, l.opts.FileName)
}

func (l *Locator) readString(name string) (string, error) {
	ref, err := l.host.Find(name)
	if err != nil {
		return "", models.LiveStateUnavailable(name, err)
	}
	s, err := l.host.String(ref)
	if err != nil {
		return "", models.LiveStateUnavailable(name, err)
	}
	return s, nil
}
