package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"

	"github.com/sandnico/rsvp-service/internal/domain"
	"github.com/sandnico/rsvp-service/internal/http/response"
	"github.com/sandnico/rsvp-service/internal/validate"
	"github.com/sandnico/rsvp-service/pkg/auth"
	"github.com/sandnico/rsvp-service/pkg/events"
	"github.com/sandnico/rsvp-service/pkg/logger"
)

const sessionCookie = "admin_session"

type loginRequest struct {
	Password string `json:"password"`
}

// AdminLogin checks the password against the configured argon2id hash
// and sets the opaque session cookie.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		response.BadRequest(w, "Password is required")
		return
	}

	ok, err := argon2id.ComparePasswordAndHash(req.Password, h.cfg.Admin.PasswordHash)
	if err != nil {
		logger.ErrorContext(r.Context(), "Admin password hash is unusable", "error", err)
		response.ConfigurationError(w)
		return
	}
	if !ok {
		// Slow down brute forcing.
		time.Sleep(time.Second)
		response.Unauthorized(w, "Invalid password")
		return
	}

	token, err := auth.NewAdminSession(h.cfg.Admin.JWTSecret, h.cfg.Admin.SessionTTL)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to issue admin session", "error", err)
		response.InternalError(w, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.cfg.Admin.SessionTTL.Seconds()),
	})

	response.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// AdminSession reports whether the caller holds a valid session.
func (h *Handlers) AdminSession(w http.ResponseWriter, r *http.Request) {
	if !h.hasValidSession(r) {
		response.WriteJSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

// AdminLogout clears the session cookie.
func (h *Handlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	response.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// RequireAdmin guards the admin guest-management routes.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.hasValidSession(r) {
			response.Unauthorized(w, "Admin session required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) hasValidSession(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	claims, err := auth.Parse(cookie.Value, h.cfg.Admin.JWTSecret)
	return err == nil && claims.Role == "admin"
}

// ListGuests returns all responses plus aggregate counts for the admin
// dashboard.
func (h *Handlers) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.guestRepo.SelectAll(r.Context())
	if err != nil {
		h.writeStorageError(w, r, err)
		return
	}

	if guests == nil {
		guests = []domain.Guest{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"guests": guests,
		"stats":  domain.ComputeStats(guests),
	})
}

// UpdateGuest applies a validated partial edit to one response.
func (h *Handlers) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	var patch domain.GuestPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if err := validate.Patch(&patch); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			response.ValidationFailed(w, ve)
			return
		}
		response.BadRequest(w, "Invalid update")
		return
	}

	guest, err := h.guestRepo.UpdateByID(r.Context(), id, patch)
	if err != nil {
		if domain.IsNotFound(err) {
			response.NotFound(w, "Guest not found")
			return
		}
		h.writeStorageError(w, r, err)
		return
	}

	if h.bus != nil {
		event := events.GuestUpdatedEvent{
			GuestID:   guest.ID,
			Name:      guest.Name,
			Attending: guest.Attending,
			UpdatedAt: guest.UpdatedAt,
		}
		if err := h.bus.Publish(r.Context(), events.GuestUpdated, event); err != nil {
			logger.WarnContext(r.Context(), "Failed to publish guest updated event", "error", err, "guest_id", guest.ID)
		}
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{"guest": guest})
}

// DeleteGuest removes one response.
func (h *Handlers) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	deleted, err := h.guestRepo.Delete(r.Context(), id)
	if err != nil {
		h.writeStorageError(w, r, err)
		return
	}
	if !deleted {
		response.NotFound(w, "Guest not found")
		return
	}

	if h.bus != nil {
		event := events.GuestDeletedEvent{GuestID: id, DeletedAt: time.Now()}
		if err := h.bus.Publish(r.Context(), events.GuestDeleted, event); err != nil {
			logger.WarnContext(r.Context(), "Failed to publish guest deleted event", "error", err, "guest_id", id)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
