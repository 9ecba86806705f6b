package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sandnico/rsvp-service/internal/domain"
	"github.com/sandnico/rsvp-service/internal/http/response"
	"github.com/sandnico/rsvp-service/internal/validate"
	"github.com/sandnico/rsvp-service/pkg/events"
	"github.com/sandnico/rsvp-service/pkg/logger"
	"github.com/sandnico/rsvp-service/pkg/retry"
)

// CreateConfirmation is the server-side fresh-insert path for first-time
// submissions. The update-vs-insert fallback lives in the client
// coordinator, not here: a conflict at this layer means someone already
// responded with this name.
func (h *Handlers) CreateConfirmation(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfirmationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	v, err := validate.Submission(req)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			response.ValidationFailed(w, ve)
			return
		}
		response.BadRequest(w, "Invalid submission")
		return
	}

	guest, err := h.guestRepo.Insert(r.Context(), v)
	if err != nil {
		h.writeStorageError(w, r, err)
		return
	}

	h.publishConfirmed(r.Context(), guest)
	h.notifyHosts(guest)

	response.WriteJSON(w, http.StatusCreated, map[string]any{"guest": guest})
}

// ListConfirmations returns every stored response, newest first.
func (h *Handlers) ListConfirmations(w http.ResponseWriter, r *http.Request) {
	guests, err := h.guestRepo.SelectAll(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list guests", "error", err)
		response.InternalError(w, "Failed to load responses")
		return
	}

	if guests == nil {
		guests = []domain.Guest{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"guests": guests})
}

func (h *Handlers) writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	logger.ErrorContext(r.Context(), "Storage error", "error", err)

	switch {
	case domain.IsConfiguration(err):
		response.ConfigurationError(w)
	case domain.IsConflict(err):
		response.Conflict(w, "A response with this name already exists")
	default:
		response.InternalError(w, "Failed to save the response")
	}
}

func (h *Handlers) publishConfirmed(ctx context.Context, g *domain.Guest) {
	if h.bus == nil {
		return
	}
	event := events.GuestConfirmedEvent{
		GuestID:   g.ID,
		Name:      g.Name,
		Attending: g.Attending,
		CreatedAt: g.CreatedAt,
	}
	if err := h.bus.Publish(ctx, events.GuestConfirmed, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish guest confirmed event", "error", err, "guest_id", g.ID)
	}
}

// notifyHosts mails the hosts about the new response. Best-effort and
// off the request path; delivery is retried with the network policy.
func (h *Handlers) notifyHosts(g *domain.Guest) {
	if h.mailer == nil || h.cfg.Email.HostEmail == "" {
		return
	}

	guest := *g
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		opts := retry.Options{ShouldRetry: retry.NetworkRetryable}
		err := retry.Do(ctx, opts, func(ctx context.Context) error {
			return h.mailer.SendConfirmationNotice(h.cfg.Email.HostEmail, h.cfg.Email.HostName, &guest)
		})
		if err != nil {
			logger.Error("Failed to send confirmation notice", "error", err, "guest_id", guest.ID)
		}
	}()
}
