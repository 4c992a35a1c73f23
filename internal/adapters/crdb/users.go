package crdb

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/domain"
)

// InsertUser runs inside the registration transaction so the organizer
// profile row commits or rolls back with it.
func (r *Repository) InsertUser(ctx context.Context, tx pgx.Tx, user domain.User) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role)
	if isUniqueViolation(err) {
		return errors.Wrap(domain.ErrConflict, "email already registered")
	}
	return err
}

func (r *Repository) InsertOrganizerProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID, organization, phone string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO organizers (user_id, organization_name, phone)
		VALUES ($1, $2, $3)
	`, userID, organization, phone)
	return err
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetVenue(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	var v domain.Venue
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, city, address FROM venues WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.City, &v.Address)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
