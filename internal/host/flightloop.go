package host

import "sync"

// FrameLoop is a FlightLoop driven by explicit frame ticks. It mirrors the
// sim's behavior: once scheduled, the callback fires after the requested
// number of frames and keeps firing every frame until deactivated or
// rescheduled.
type FrameLoop struct {
	mu        sync.Mutex
	callback  func()
	active    bool
	remaining int
	fired     int
}

// NewFrameLoop creates an idle frame loop that will invoke callback.
func NewFrameLoop(callback func()) *FrameLoop {
	return &FrameLoop{callback: callback}
}

// SetCallback replaces the callback.
func (f *FrameLoop) SetCallback(callback func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = callback
}

func (f *FrameLoop) ScheduleAfterLoops(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 1 {
		n = 1
	}
	f.active = true
	f.remaining = n
}

func (f *FrameLoop) Deactivate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = false
	f.remaining = 0
}

// Active reports whether the callback is scheduled.
func (f *FrameLoop) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Fired returns how many times the callback has run.
func (f *FrameLoop) Fired() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired
}

// Tick advances one frame and runs the callback if it is due.
// Returns true if the callback ran.
func (f *FrameLoop) Tick() bool {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return false
	}
	f.remaining--
	if f.remaining > 0 {
		f.mu.Unlock()
		return false
	}
	// keep firing every frame unless the callback deactivates or reschedules
	f.remaining = 1
	f.fired++
	cb := f.callback
	f.mu.Unlock()

	if cb != nil {
		cb()
	}
	return true
}

// Ensure FrameLoop implements FlightLoop
var _ FlightLoop = (*FrameLoop)(nil)
