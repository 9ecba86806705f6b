package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandnico/rsvp-service/internal/domain"
)

// GuestRepository is the storage collaborator consumed by the submission
// coordinator and the HTTP handlers.
type GuestRepository interface {
	Insert(ctx context.Context, v domain.ValidatedGuest) (*domain.Guest, error)
	UpdateByID(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error)
	UpdateByName(ctx context.Context, name string, patch domain.GuestPatch) (*domain.Guest, error)
	SelectAll(ctx context.Context) ([]domain.Guest, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type guestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) GuestRepository {
	return &guestRepository{pool: pool}
}

const guestCols = `id, name, attending, message, created_at, updated_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(&g.ID, &g.Name, &g.Attending, &g.Message, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *guestRepository) Insert(ctx context.Context, v domain.ValidatedGuest) (*domain.Guest, error) {
	const q = `INSERT INTO guests (name, attending, message)
	VALUES ($1, $2, $3)
	RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, v.Name, v.Attending, v.Message))
	if err != nil {
		return nil, mapError("insert guest", err, v.Name)
	}
	return g, nil
}

func (r *guestRepository) UpdateByID(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	set, args := buildPatch(patch, []any{id})
	q := `UPDATE guests SET ` + strings.Join(set, ", ") + ` WHERE id=$1 RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, mapError("update guest", err, deref(patch.Name))
	}
	return g, nil
}

func (r *guestRepository) UpdateByName(ctx context.Context, name string, patch domain.GuestPatch) (*domain.Guest, error) {
	// Name is the soft uniqueness key: when an insert loses the race
	// against another device, the existing row is updated in place.
	set, args := buildPatch(patch, []any{name})
	q := `UPDATE guests SET ` + strings.Join(set, ", ") + ` WHERE name=$1 RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{}
	}
	if err != nil {
		return nil, mapError("update guest by name", err, name)
	}
	return g, nil
}

func (r *guestRepository) SelectAll(ctx context.Context) ([]domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, mapError("list guests", err, "")
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(&g.ID, &g.Name, &g.Attending, &g.Message, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, mapError("scan guest", err, "")
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list guests", err, "")
	}
	return guests, nil
}

func (r *guestRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM guests WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, mapError("delete guest", err, "")
	}
	return tag.RowsAffected() > 0, nil
}

// buildPatch assembles the SET clause for the fields present in patch.
// A present-but-empty message clears the column to null. updated_at is
// always bumped; created_at is never touched.
func buildPatch(patch domain.GuestPatch, args []any) ([]string, []any) {
	set := []string{"updated_at = now()"}
	if patch.Name != nil {
		args = append(args, *patch.Name)
		set = append(set, fmt.Sprintf("name=$%d", len(args)))
	}
	if patch.Attending != nil {
		args = append(args, *patch.Attending)
		set = append(set, fmt.Sprintf("attending=$%d", len(args)))
	}
	if patch.Message != nil {
		if *patch.Message == "" {
			set = append(set, "message=NULL")
		} else {
			args = append(args, *patch.Message)
			set = append(set, fmt.Sprintf("message=$%d", len(args)))
		}
	}
	return set, args
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ GuestRepository = (*guestRepository)(nil)
