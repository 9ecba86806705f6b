// rsvpctl submits a confirmation straight against the storage backend,
// the same write path a browser form uses, keeping the device identity
// token in a local file so a second run edits the first response.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/sandnico/rsvp-service/internal/domain"
	"github.com/sandnico/rsvp-service/internal/identity"
	"github.com/sandnico/rsvp-service/internal/repo/postgres"
	"github.com/sandnico/rsvp-service/internal/rsvp"
	"github.com/sandnico/rsvp-service/pkg/config"
	"github.com/sandnico/rsvp-service/pkg/database"
)

func main() {
	_ = godotenv.Load()

	var (
		name      = flag.String("name", "", "guest name")
		attending = flag.Bool("attending", false, "whether the guest attends")
		message   = flag.String("message", "", "optional message")
		list      = flag.Bool("list", false, "list all responses instead of submitting")
		tokenPath = flag.String("token-file", defaultTokenPath(), "where the device identity token is stored")
	)
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		fatal("connect to database: %v", err)
	}
	defer pool.Close()

	coordinator := rsvp.NewCoordinator(
		postgres.NewGuestRepository(pool),
		identity.NewFileProvider(*tokenPath),
		nil,
	)

	if *list {
		guests, err := coordinator.ListGuests(ctx)
		if err != nil {
			fatal("list responses: %v", err)
		}
		out, _ := json.MarshalIndent(guests, "", "  ")
		fmt.Println(string(out))
		return
	}

	if *name == "" {
		fatal("-name is required")
	}

	req := domain.ConfirmationReq{
		Name:      *name,
		Attending: attending,
		Message:   *message,
	}

	guest, err := coordinator.Submit(ctx, req)
	if err != nil {
		fatal("submit: %v", err)
	}

	out, _ := json.MarshalIndent(guest, "", "  ")
	fmt.Println(string(out))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rsvp-token"
	}
	return filepath.Join(home, ".rsvp-token")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
