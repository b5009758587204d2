package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telephono/persistent-loadout/internal/models"
)

// LoadoutResponse is a stored loadout together with where it lives.
type LoadoutResponse struct {
	Livery  models.LiveryKey `json:"livery"`
	Path    string           `json:"path"`
	Loadout models.Loadout   `json:"loadout"`
}

// ListResponse lists the liveries that have a stored loadout.
type ListResponse struct {
	Liveries []models.LiveryKey `json:"liveries"`
}

func (h *Handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}

func (h *Handlers) getLoadouts(w http.ResponseWriter, r *http.Request) {
	st, err := h.stores.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	keys, err := st.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if keys == nil {
		keys = []models.LiveryKey{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Liveries: keys})
}

func (h *Handlers) getLoadout(w http.ResponseWriter, r *http.Request) {
	key := models.NewLiveryKey(chi.URLParam(r, "livery"))
	st, err := h.stores.Store()
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := st.Load(key)
	if err != nil {
		writeError(w, err)
		return
	}
	if l == nil {
		writeNotFound(w, fmt.Sprintf("no loadout stored for livery %q", key))
		return
	}
	writeJSON(w, http.StatusOK, LoadoutResponse{Livery: key, Path: st.Path(key), Loadout: *l})
}

func (h *Handlers) getLive(w http.ResponseWriter, r *http.Request) {
	l, err := h.live.Read()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
