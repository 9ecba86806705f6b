// Package rsvp decides whether a submission is a first-time insert or an
// edit of the record this device already created, and converges the two
// when a uniqueness conflict says another path got there first.
package rsvp

import (
	"context"
	"time"

	"github.com/sandnico/rsvp-service/internal/domain"
	"github.com/sandnico/rsvp-service/internal/identity"
	"github.com/sandnico/rsvp-service/internal/validate"
	"github.com/sandnico/rsvp-service/pkg/events"
	"github.com/sandnico/rsvp-service/pkg/logger"
	"github.com/sandnico/rsvp-service/pkg/retry"
)

// GuestStore is the storage surface the coordinator drives. Each call is
// one complete logical operation, which is what makes wrapping it in the
// retry policy safe.
type GuestStore interface {
	Insert(ctx context.Context, v domain.ValidatedGuest) (*domain.Guest, error)
	UpdateByID(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error)
	UpdateByName(ctx context.Context, name string, patch domain.GuestPatch) (*domain.Guest, error)
	SelectAll(ctx context.Context) ([]domain.Guest, error)
}

// Coordinator runs one submission at a time per instance; callers should
// disable their trigger while a submission is outstanding.
type Coordinator struct {
	store    GuestStore
	identity identity.Provider
	bus      events.Publisher
	retry    retry.Options
}

func NewCoordinator(store GuestStore, provider identity.Provider, bus events.Publisher) *Coordinator {
	return &Coordinator{
		store:    store,
		identity: provider,
		bus:      bus,
		// Storage operations get fewer attempts than the generic
		// default; a database that failed twice in a row is not coming
		// back within this request.
		retry: retry.Options{
			MaxAttempts: 2,
			ShouldRetry: retry.StorageRetryable,
		},
	}
}

// SetRetryOptions overrides the storage retry policy.
func (c *Coordinator) SetRetryOptions(opts retry.Options) {
	c.retry = opts
}

// Submit validates the form, routes it to insert or update, and persists
// the resulting record's ID as this device's identity token. The stored
// record is returned so the caller reflects exactly what was saved, not
// just what was submitted.
func (c *Coordinator) Submit(ctx context.Context, req domain.ConfirmationReq) (*domain.Guest, error) {
	v, err := validate.Submission(req)
	if err != nil {
		// Never reaches the network layer.
		return nil, err
	}

	if id, ok := c.identity.Get(); ok {
		g, err := c.updateByID(ctx, id, v)
		if err == nil {
			return c.finish(ctx, g, events.GuestUpdated)
		}
		if !domain.IsNotFound(err) {
			return nil, err
		}
		// The record this token pointed at is gone (deleted by an
		// admin). Drop the stale token and submit fresh.
		logger.WarnContext(ctx, "Identity token points at a missing guest, clearing it", "guest_id", id)
		if cerr := c.identity.Clear(); cerr != nil {
			logger.ErrorContext(ctx, "Failed to clear stale identity token", "error", cerr)
		}
	}

	g, err := c.insert(ctx, v)
	if domain.IsConflict(err) {
		// Same name already stored: most likely the same person
		// resubmitting without their token. Converge onto the existing
		// row instead of failing or duplicating.
		g, err = c.updateByName(ctx, v.Name, v)
	}
	if err != nil {
		return nil, err
	}
	return c.finish(ctx, g, events.GuestConfirmed)
}

func (c *Coordinator) finish(ctx context.Context, g *domain.Guest, subject string) (*domain.Guest, error) {
	if err := c.identity.Set(g.ID); err != nil {
		// The submission itself succeeded; a failed token write only
		// costs the edit-in-place shortcut next time.
		logger.ErrorContext(ctx, "Failed to persist identity token", "error", err, "guest_id", g.ID)
	}
	c.publish(ctx, subject, g)
	return g, nil
}

func (c *Coordinator) insert(ctx context.Context, v domain.ValidatedGuest) (*domain.Guest, error) {
	var g *domain.Guest
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		var err error
		g, err = c.store.Insert(ctx, v)
		return err
	})
	return g, err
}

func (c *Coordinator) updateByID(ctx context.Context, id int64, v domain.ValidatedGuest) (*domain.Guest, error) {
	var g *domain.Guest
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		var err error
		g, err = c.store.UpdateByID(ctx, id, v.Patch())
		return err
	})
	return g, err
}

func (c *Coordinator) updateByName(ctx context.Context, name string, v domain.ValidatedGuest) (*domain.Guest, error) {
	var g *domain.Guest
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		var err error
		g, err = c.store.UpdateByName(ctx, name, v.Patch())
		return err
	})
	return g, err
}

// ListGuests returns every stored response newest-first, retried like
// any other storage call.
func (c *Coordinator) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	var guests []domain.Guest
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		var err error
		guests, err = c.store.SelectAll(ctx)
		return err
	})
	return guests, err
}

func (c *Coordinator) publish(ctx context.Context, subject string, g *domain.Guest) {
	if c.bus == nil {
		return
	}
	var payload any
	switch subject {
	case events.GuestUpdated:
		payload = events.GuestUpdatedEvent{
			GuestID:   g.ID,
			Name:      g.Name,
			Attending: g.Attending,
			UpdatedAt: g.UpdatedAt,
		}
	default:
		payload = events.GuestConfirmedEvent{
			GuestID:   g.ID,
			Name:      g.Name,
			Attending: g.Attending,
			CreatedAt: g.CreatedAt,
		}
	}
	// Best-effort: other open tabs refreshing is a nicety, not a
	// correctness requirement.
	pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.bus.Publish(pubCtx, subject, payload); err != nil {
		logger.WarnContext(ctx, "Failed to publish guest change event", "error", err, "subject", subject)
	}
}
