package service

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/observability"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type userStore interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	InsertUser(ctx context.Context, tx pgx.Tx, user domain.User) error
	InsertOrganizerProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID, organization, phone string) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userAuditor interface {
	LogUserRegistered(ctx context.Context, user domain.User) error
}

// AuthService implements registration and credential checks. Session issuing
// lives in the session package; this service never touches cookies.
type AuthService struct {
	store  userStore
	audit  userAuditor
	logger observability.Logger
}

func NewAuthService(store userStore, audit userAuditor, logger observability.Logger) *AuthService {
	return &AuthService{store: store, audit: audit, logger: logger}
}

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.Role
	Organization string
	Phone        string
}

// Register creates the user row and, for organizers, the profile row in one
// transaction so neither exists without the other.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "name, email and password are required")
	}
	if !domain.ValidRole(in.Role) {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "invalid role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
	}

	err = s.store.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.store.InsertUser(ctx, tx, user); err != nil {
			return err
		}
		if user.Role == domain.RoleOrganizer {
			return s.store.InsertOrganizerProfile(ctx, tx, user.ID, in.Organization, in.Phone)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		if err := s.audit.LogUserRegistered(context.WithoutCancel(ctx), user); err != nil {
			s.logger.Warn("audit write failed for user ", user.ID)
		}
	}
	return &user, nil
}

// Login checks credentials and returns the user. An unknown email is
// not-found; a bad password is unauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "email and password are required")
	}
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Wrap(domain.ErrUnauthorized, "invalid credentials")
	}
	return user, nil
}
