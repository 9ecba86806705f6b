package handlers

import (
	"net/http"

	"github.com/sandnico/rsvp-service/internal/http/response"
)

// EventDetails returns the static event facts the invitation page
// displays next to the form.
func (h *Handlers) EventDetails(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"name":     h.cfg.Event.Name,
		"date":     h.cfg.Event.Date,
		"location": h.cfg.Event.Location,
	})
}
