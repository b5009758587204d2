// Package api implements the read-only HTTP inspection API used by the
// simulator harness.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/telephono/persistent-loadout/internal/models"
	"github.com/telephono/persistent-loadout/internal/store"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Controller
	stores StoreOpener
	live   LiveReader
	events EventBus
}

// Controller is the view of the reconciliation controller the API needs.
type Controller interface {
	Status() models.Status
}

// StoreOpener opens the loadout store of the loaded aircraft.
type StoreOpener interface {
	Store() (store.Store, error)
}

// LiveReader captures the current live loadout.
type LiveReader interface {
	Read() (models.Loadout, error)
}

// EventBus is the interface for subscribing to controller events.
type EventBus interface {
	Subscribe(id string) <-chan models.Event
	SubscribeSince(id string, after uint64) (<-chan models.Event, []models.Event)
	Unsubscribe(id string)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var pe *models.PluginError
	if !errors.As(err, &pe) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "INTERNAL", Message: err.Error()})
		return
	}
	status := http.StatusInternalServerError
	switch pe.Kind {
	case models.KindLiveStateUnavailable:
		status = http.StatusServiceUnavailable
	case models.KindUnsupportedAircraft, models.KindNotColdAndDark:
		status = http.StatusConflict
	case models.KindMalformedData:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorBody{Error: string(pe.Kind), Message: pe.Error()})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "NOT_FOUND", Message: msg})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "BAD_REQUEST", Message: msg})
}
