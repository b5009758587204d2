// Package controller implements the loadout reconciliation state machine.
// It restores a livery's loadout once the sim is ready, swaps loadouts when
// the user changes livery, and saves the live state when the session ends.
//
// The host invokes every callback on one thread, one at a time. The mutex
// only guards Status, which the inspection API reads from another goroutine.
package controller

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/telephono/persistent-loadout/internal/bridge"
	"github.com/telephono/persistent-loadout/internal/events"
	"github.com/telephono/persistent-loadout/internal/host"
	"github.com/telephono/persistent-loadout/internal/livery"
	"github.com/telephono/persistent-loadout/internal/models"
	"github.com/telephono/persistent-loadout/internal/store"
)

// DefaultActivationFrames is how many frames Enable waits before restoring.
// The sim's datarefs hold placeholder values for the first frames after an
// aircraft loads.
const DefaultActivationFrames = 60

// Options tunes a Controller.
type Options struct {
	ActivationFrames int

	// OpenStore returns the store for the loaded aircraft.
	// Defaults to the locator's Store.
	OpenStore func() (store.Store, error)
}

// Controller owns the tracked livery and drives save/restore.
type Controller struct {
	mu      sync.Mutex
	host    host.Host
	bridge  *bridge.Bridge
	locator *livery.Locator
	loop    host.FlightLoop
	bus     *events.Bus
	opts    Options

	state   models.ControllerState
	livery  models.LiveryKey // last known livery, set after a restore attempt
	session string
	last    *models.Event

	noopLog rate.Sometimes
}

// New creates a controller in the Uninitialized state. It performs no I/O.
func New(h host.Host, loop host.FlightLoop, loc *livery.Locator, bus *events.Bus, opts Options) *Controller {
	if opts.ActivationFrames <= 0 {
		opts.ActivationFrames = DefaultActivationFrames
	}
	if opts.OpenStore == nil {
		opts.OpenStore = loc.Store
	}
	return &Controller{
		host:    h,
		bridge:  bridge.New(h),
		locator: loc,
		loop:    loop,
		bus:     bus,
		opts:    opts,
		state:   models.StateUninitialized,
		noopLog: rate.Sometimes{First: 3, Interval: time.Minute},
	}
}

// Status returns a point-in-time view of the controller.
func (c *Controller) Status() models.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := models.Status{State: c.state, Livery: c.livery, Session: c.session}
	if c.last != nil {
		ev := *c.last
		st.LastEvent = &ev
	}
	return st
}

// Enable checks that the loaded aircraft is supported and was started cold
// and dark, then schedules the restore after the activation delay.
// A gate failure leaves the controller Disabled and is returned to the host.
func (c *Controller) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case models.StateAwaitingActivation, models.StateActive:
		slog.Warn("controller: enable called while already enabled", "state", c.state)
		return nil
	}

	if err := c.checkGates(); err != nil {
		c.state = models.StateDisabled
		c.livery = ""
		slog.Warn("controller: not enabling", "err", err)
		c.publish(models.EventEnableFailed, "", err)
		return err
	}

	c.session = uuid.NewString()
	c.livery = ""
	c.state = models.StateAwaitingActivation
	c.loop.ScheduleAfterLoops(c.opts.ActivationFrames)
	slog.Info("controller: enabled, waiting for sim", "frames", c.opts.ActivationFrames, "session", c.session)
	c.publish(models.EventEnabled, "", nil)
	return nil
}

func (c *Controller) checkGates() error {
	if err := c.locator.CheckAircraft(); err != nil {
		return err
	}
	if _, err := c.locator.ModelDir(); err != nil {
		return err
	}
	ref, err := c.host.Find(host.DataRefStartupRunning)
	if err != nil {
		return models.LiveStateUnavailable(host.DataRefStartupRunning, err)
	}
	running, err := c.host.Int(ref)
	if err != nil {
		return models.LiveStateUnavailable(host.DataRefStartupRunning, err)
	}
	if running != 0 {
		return models.NotColdAndDark()
	}
	return nil
}

// FlightLoop is the scheduled callback. It restores the current livery's
// loadout and deactivates itself whatever the outcome.
func (c *Controller) FlightLoop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.loop.Deactivate()

	if c.state != models.StateAwaitingActivation {
		slog.Debug("controller: flight loop fired outside activation", "state", c.state)
		return
	}
	c.state = models.StateActive

	key, err := c.locator.Current()
	if err != nil {
		slog.Error("controller: could not resolve livery, skipping restore", "err", err)
		c.publish(models.EventRestoreFailed, "", err)
		return
	}
	c.livery = key
	_ = c.restore(key)
}

// LiveryLoaded handles the host's livery-loaded message for the aircraft at
// index. Only the user's aircraft (index 0) is tracked.
//
// The live state belonging to the previous livery is read and saved before
// anything is written for the new one. The tracked livery changes only once
// the new livery was restored or has nothing stored.
func (c *Controller) LiveryLoaded(index int) {
	if index != 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.StateActive {
		slog.Debug("controller: ignoring livery change", "state", c.state)
		return
	}

	newKey, err := c.locator.Current()
	if err != nil {
		slog.Error("controller: could not resolve new livery", "err", err)
		c.publish(models.EventLiveryChanged, "", err)
		return
	}
	oldKey := c.livery
	if newKey == oldKey {
		c.noopLog.Do(func() {
			slog.Debug("controller: livery unchanged, nothing to do", "livery", newKey)
		})
		return
	}
	slog.Info("controller: livery change detected", "from", oldKey, "to", newKey)

	if oldKey.IsZero() {
		// restore never resolved a livery, so the live state belongs to none
		slog.Warn("controller: no previous livery, not saving", "to", newKey)
		c.publish(models.EventSaveSkipped, "", nil)
	} else if err := c.save(oldKey); err != nil {
		// the sim still holds oldKey's state; keep tracking it
		return
	}

	if err := c.restore(newKey); err != nil {
		// the sim still holds oldKey's state
		slog.Warn("controller: still tracking previous livery", "livery", oldKey, "failed", newKey)
		return
	}
	c.livery = newKey
	c.publish(models.EventLiveryChanged, newKey, nil)
}

// Disable saves the live state under the tracked livery and ends the
// session. Failures are logged, never returned.
func (c *Controller) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.loop.Deactivate()

	switch c.state {
	case models.StateActive, models.StateAwaitingActivation:
	default:
		slog.Debug("controller: disable with nothing to save", "state", c.state)
		return
	}

	key := c.livery
	if key.IsZero() {
		var err error
		if key, err = c.locator.Current(); err != nil {
			slog.Error("controller: could not resolve livery, not saving", "err", err)
			c.publish(models.EventSaveFailed, "", err)
		}
	}
	if !key.IsZero() {
		_ = c.save(key)
	}

	c.state = models.StateInactive
	slog.Info("controller: disabled", "livery", key, "session", c.session)
	c.publish(models.EventDisabled, key, nil)
}

// save reads the live state and stores it under key.
func (c *Controller) save(key models.LiveryKey) error {
	snapshot, err := c.bridge.Read()
	if err != nil {
		slog.Error("controller: could not read live state, not saving", "livery", key, "err", err)
		c.publish(models.EventSaveFailed, key, err)
		return err
	}
	st, err := c.opts.OpenStore()
	if err != nil {
		slog.Error("controller: could not open store", "livery", key, "err", err)
		c.publish(models.EventSaveFailed, key, err)
		return err
	}
	if err := st.Save(key, snapshot); err != nil {
		if errors.Is(err, models.ErrEmptyLoadout) {
			slog.Warn("controller: live state has no fuel tanks, not saving", "livery", key)
			c.publish(models.EventSaveSkipped, key, err)
			return err
		}
		slog.Error("controller: save failed", "livery", key, "path", st.Path(key), "err", err)
		c.publish(models.EventSaveFailed, key, err)
		return err
	}
	slog.Info("controller: loadout saved", "livery", key, "path", st.Path(key),
		"fuel_total", snapshot.TotalFuel())
	c.publish(models.EventSaved, key, nil)
	return nil
}

// restore loads key's loadout and writes it to the sim if one is stored.
// An absent loadout is not an error.
func (c *Controller) restore(key models.LiveryKey) error {
	st, err := c.opts.OpenStore()
	if err != nil {
		slog.Error("controller: could not open store", "livery", key, "err", err)
		c.publish(models.EventRestoreFailed, key, err)
		return err
	}
	l, err := st.Load(key)
	if err != nil {
		slog.Error("controller: could not load loadout", "livery", key, "err", err)
		c.publish(models.EventRestoreFailed, key, err)
		return err
	}
	if l == nil {
		slog.Info("controller: no stored loadout", "livery", key, "path", st.Path(key))
		c.publish(models.EventRestoreAbsent, key, nil)
		return nil
	}
	if err := c.bridge.Write(*l); err != nil {
		slog.Error("controller: restore failed", "livery", key, "err", err)
		c.publish(models.EventRestoreFailed, key, err)
		return err
	}
	slog.Info("controller: loadout restored", "livery", key, "fuel_total", l.TotalFuel())
	c.publish(models.EventRestored, key, nil)
	return nil
}

func (c *Controller) publish(kind models.EventKind, key models.LiveryKey, err error) {
	ev := models.Event{
		Kind:    kind,
		State:   c.state,
		Livery:  key,
		Session: c.session,
		Time:    time.Now().UTC(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	ev = c.bus.Publish(ev)
	c.last = &ev
}
