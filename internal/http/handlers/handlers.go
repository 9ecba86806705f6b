package handlers

import (
	"github.com/sandnico/rsvp-service/internal/mailer"
	"github.com/sandnico/rsvp-service/internal/repo/postgres"
	"github.com/sandnico/rsvp-service/pkg/config"
	"github.com/sandnico/rsvp-service/pkg/events"
)

type Handlers struct {
	guestRepo postgres.GuestRepository
	bus       events.Publisher
	mailer    mailer.Service
	cfg       *config.Config
}

func New(guestRepo postgres.GuestRepository, bus events.Publisher, m mailer.Service, cfg *config.Config) *Handlers {
	return &Handlers{
		guestRepo: guestRepo,
		bus:       bus,
		mailer:    m,
		cfg:       cfg,
	}
}
