package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	redisadapter "github.com/robertarktes/ticketing-platform/internal/adapters/redis"
	"github.com/robertarktes/ticketing-platform/internal/domain"
)

const CookieName = "tp_session"

// Store issues opaque session tokens backed by redis. The payload is the
// immutable identity resolved at login; nothing in the request path writes
// back to it.
type Store struct {
	sessions *redisadapter.Sessions
	ttl      time.Duration
}

func NewStore(sessions *redisadapter.Sessions, ttl time.Duration) *Store {
	return &Store{sessions: sessions, ttl: ttl}
}

type payload struct {
	UserID uuid.UUID   `json:"user_id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

func (s *Store) Create(ctx context.Context, identity domain.Identity) (string, error) {
	token := uuid.NewString()
	p := payload{
		UserID: identity.UserID,
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   identity.Role,
	}
	if err := s.sessions.Set(ctx, token, p, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a token to an identity. Missing or expired tokens are
// unauthorized, not storage errors.
func (s *Store) Get(ctx context.Context, token string) (*domain.Identity, error) {
	var p payload
	ok, err := s.sessions.Get(ctx, token, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Identity{
		UserID: p.UserID,
		Name:   p.Name,
		Email:  p.Email,
		Role:   p.Role,
	}, nil
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
