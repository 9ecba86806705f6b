package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sandnico/rsvp-service/internal/http/handlers"
	httpmw "github.com/sandnico/rsvp-service/internal/http/middleware"
	"github.com/sandnico/rsvp-service/internal/mailer"
	"github.com/sandnico/rsvp-service/internal/ratelimit"
	"github.com/sandnico/rsvp-service/internal/repo/postgres"
	"github.com/sandnico/rsvp-service/pkg/config"
	"github.com/sandnico/rsvp-service/pkg/database"
	"github.com/sandnico/rsvp-service/pkg/events"
	"github.com/sandnico/rsvp-service/pkg/logger"
	mw "github.com/sandnico/rsvp-service/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Change notifications are best-effort: run without a broker when
	// NATS is not configured.
	var bus events.EventBus = events.NewNoopEventBus()
	if cfg.NATS.Enabled {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Warn("NATS unavailable, change notifications disabled", "error", err)
		} else {
			bus = natsBus
		}
	}
	defer bus.Close()

	var store ratelimit.Store
	switch cfg.RateLimit.Store {
	case "redis":
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Invalid Redis URL", "error", err)
			os.Exit(1)
		}
		store = ratelimit.NewRedisStore(redis.NewClient(opts))
	default:
		memStore := ratelimit.NewMemoryStore()
		memStore.StartSweeper(ctx, cfg.RateLimit.SweepInterval)
		store = memStore
	}

	writeLimiter := ratelimit.New(store, cfg.RateLimit.WriteMax, cfg.RateLimit.Window)
	readLimiter := ratelimit.New(store, cfg.RateLimit.ReadMax, cfg.RateLimit.Window)

	guestRepo := postgres.NewGuestRepository(pool)
	h := handlers.New(guestRepo, bus, newMailer(cfg), cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/event", h.EventDetails)

	r.Route("/confirmations", func(r chi.Router) {
		r.With(httpmw.RateLimit(writeLimiter, httpmw.ClassWrite)).Post("/", h.CreateConfirmation)
		r.With(httpmw.RateLimit(readLimiter, httpmw.ClassRead)).Get("/", h.ListConfirmations)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.AdminLogin)
		r.Get("/session", h.AdminSession)
		r.Delete("/session", h.AdminLogout)

		r.Route("/guests", func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/", h.ListGuests)
			r.Patch("/{id}", h.UpdateGuest)
			r.Delete("/{id}", h.DeleteGuest)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down RSVP service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting RSVP service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func newMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom,
			cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}
}
