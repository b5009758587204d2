package hostsim

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/telephono/persistent-loadout/internal/host"
)

const msgQueueSize = 32

// Plugin is the set of host callbacks the runner drives.
type Plugin interface {
	Enable() error
	Disable()
	LiveryLoaded(index int)
}

type message struct {
	id    int
	param int
}

// Runner plays the host for one session. Every plugin callback runs on the
// Run goroutine, between frames.
type Runner struct {
	plugin  Plugin
	loop    *host.FrameLoop
	limiter *rate.Limiter
	msgs    chan message
	frames  atomic.Int64
}

// NewRunner creates a runner ticking loop at frameRate frames per second.
func NewRunner(p Plugin, loop *host.FrameLoop, frameRate float64) *Runner {
	return &Runner{
		plugin:  p,
		loop:    loop,
		limiter: rate.NewLimiter(rate.Limit(frameRate), 1),
		msgs:    make(chan message, msgQueueSize),
	}
}

// SendMessage queues a host message for delivery before the next frame.
// It is safe to call from any goroutine.
func (r *Runner) SendMessage(id, param int) {
	select {
	case r.msgs <- message{id: id, param: param}:
	default:
		slog.Warn("hostsim: message queue full, dropping", "msg", id, "param", param)
	}
}

// Frames returns how many frames have run.
func (r *Runner) Frames() int64 { return r.frames.Load() }

// Run enables the plugin and runs frames until ctx is cancelled, then
// disables it. A failed enable is returned; the plugin is never called again.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.plugin.Enable(); err != nil {
		return err
	}
	slog.Info("hostsim: plugin enabled", "rate", float64(r.limiter.Limit()))

	for {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctx.Err() == nil {
				slog.Warn("hostsim: frame pacing failed", "err", err)
			}
			break
		}
		r.Step()
	}

	r.plugin.Disable()
	slog.Info("hostsim: plugin disabled", "frames", r.Frames())
	return nil
}

// Step delivers pending messages and advances one frame.
func (r *Runner) Step() {
	for pending := true; pending; {
		select {
		case m := <-r.msgs:
			r.deliver(m)
		default:
			pending = false
		}
	}
	r.frames.Add(1)
	r.loop.Tick()
}

func (r *Runner) deliver(m message) {
	switch m.id {
	case host.MsgLiveryLoaded:
		r.plugin.LiveryLoaded(m.param)
	default:
		slog.Debug("hostsim: ignoring message", "msg", m.id)
	}
}
