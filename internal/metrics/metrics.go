// Package metrics exports controller activity as Prometheus metrics for the
// inspection API.
package metrics

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telephono/persistent-loadout/internal/events"
	"github.com/telephono/persistent-loadout/internal/models"
)

const (
	namespace    = "loadout"
	subscriberID = "metrics"
)

var states = []models.ControllerState{
	models.StateUninitialized,
	models.StateAwaitingActivation,
	models.StateActive,
	models.StateInactive,
	models.StateDisabled,
}

// Collector counts controller events and tracks the current state.
type Collector struct {
	reg    *prometheus.Registry
	events *prometheus.CounterVec
	state  *prometheus.GaugeVec
	saves  prometheus.Counter

	watching atomic.Bool
}

// New creates a collector with its own registry. If bus is non-nil the
// number of event stream clients is exported too; the collector's own
// subscription is not counted.
func New(bus *events.Bus) *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "controller",
			Name:      "events_total",
			Help:      "Controller events by kind.",
		}, []string{"kind"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "controller",
			Name:      "state",
			Help:      "1 for the controller's current lifecycle state.",
		}, []string{"state"}),
		saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Loadouts written to disk.",
		}),
	}
	c.reg.MustRegister(c.events, c.state, c.saves)
	if bus != nil {
		c.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "subscribers",
			Help:      "Open event stream subscriptions.",
		}, func() float64 {
			n := bus.SubscriberCount()
			if c.watching.Load() && n > 0 {
				n--
			}
			return float64(n)
		}))
	}
	c.setState(models.StateUninitialized)
	return c
}

// Observe records one controller event.
func (c *Collector) Observe(ev models.Event) {
	c.events.WithLabelValues(string(ev.Kind)).Inc()
	if ev.Kind == models.EventSaved {
		c.saves.Inc()
	}
	if ev.State != "" {
		c.setState(ev.State)
	}
}

func (c *Collector) setState(s models.ControllerState) {
	for _, st := range states {
		v := 0.0
		if st == s {
			v = 1
		}
		c.state.WithLabelValues(string(st)).Set(v)
	}
}

// Watch subscribes to bus before returning and observes its events until
// ctx is done.
func (c *Collector) Watch(ctx context.Context, bus *events.Bus) {
	ch := bus.Subscribe(subscriberID)
	c.watching.Store(true)
	go func() {
		defer func() {
			bus.Unsubscribe(subscriberID)
			c.watching.Store(false)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				c.Observe(ev)
			}
		}
	}()
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}
