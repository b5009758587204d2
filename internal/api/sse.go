package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/telephono/persistent-loadout/internal/events"
	"github.com/telephono/persistent-loadout/internal/models"
)

// sseEvents streams controller events.
//
// The stream opens with the current status, then carries one SSE event per
// controller event, named after its kind and identified by its sequence
// number. A client that reconnects with Last-Event-ID (or ?last_event_id=)
// first receives the retained events it missed. ?livery= and ?kind= (comma
// separated, repeatable) narrow the stream.
func (h *Handlers) sseEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	after, resume, err := lastEventID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	id := uuid.New().String()
	var (
		ch      <-chan models.Event
		backlog []models.Event
	)
	if resume {
		ch, backlog = h.events.SubscribeSince(id, after)
	} else {
		ch = h.events.Subscribe(id)
	}
	defer h.events.Unsubscribe(id)

	sendSSE(w, flusher, 0, "status", h.ctrl.Status())
	for _, ev := range backlog {
		if filter.Match(ev) {
			sendSSE(w, flusher, ev.Seq, string(ev.Kind), ev)
		}
	}

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if filter.Match(ev) {
				sendSSE(w, flusher, ev.Seq, string(ev.Kind), ev)
			}
		case <-r.Context().Done():
			return
		}
	}
}

func parseFilter(r *http.Request) (events.Filter, error) {
	var f events.Filter
	q := r.URL.Query()
	if l := strings.TrimSpace(q.Get("livery")); l != "" {
		f.Livery = models.NewLiveryKey(l)
	}
	for _, v := range q["kind"] {
		for _, k := range strings.Split(v, ",") {
			kind := models.EventKind(strings.TrimSpace(k))
			if kind == "" {
				continue
			}
			if !kind.Valid() {
				return f, fmt.Errorf("unknown event kind %q", kind)
			}
			if f.Kinds == nil {
				f.Kinds = make(map[models.EventKind]bool)
			}
			f.Kinds[kind] = true
		}
	}
	return f, nil
}

// lastEventID reads the resume point from the Last-Event-ID header, falling
// back to the last_event_id query parameter for clients that cannot set
// headers.
func lastEventID(r *http.Request) (uint64, bool, error) {
	v := r.Header.Get("Last-Event-ID")
	if v == "" {
		v = r.URL.Query().Get("last_event_id")
	}
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid last event id %q", v)
	}
	return n, true, nil
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, seq uint64, event string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if seq > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", seq)
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
