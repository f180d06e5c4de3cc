package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
	"github.com/aussiebroadwan/propdesk/pkg/idx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

var ErrEmailTaken = errors.New("email already registered")

// NewIdentity carries the fields needed to register an identity.
type NewIdentity struct {
	Name     string
	Email    string
	Phone    string
	Role     domain.Role
	Password string
	Inactive bool
}

func (n NewIdentity) build() (domain.Identity, error) {
	if !n.Role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, n.Role)
	}

	hash, err := cryptox.HashPassword(n.Password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	return domain.Identity{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(n.Name),
		Email:        domain.NormalizeEmail(n.Email),
		Phone:        strings.TrimSpace(n.Phone),
		Role:         n.Role,
		IsActive:     !n.Inactive,
		PasswordHash: hash,
	}, nil
}

// IdentityService manages the user directory.
type IdentityService struct {
	Store store.Store
}

func (s *IdentityService) Create(ctx context.Context, n NewIdentity) (domain.Identity, error) {
	ident, err := n.build()
	if err != nil {
		return domain.Identity{}, err
	}

	if err := s.Store.Identities().Create(ctx, ident); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Identity{}, ErrEmailTaken
		}
		return domain.Identity{}, err
	}

	created, err := s.Store.Identities().GetByID(ctx, ident.ID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("reload identity: %w", err)
	}

	slogx.FromContext(ctx).Info("identity created",
		slog.String("identity_id", created.ID),
		slog.String("role", created.Role.String()),
	)
	return created, nil
}

func (s *IdentityService) List(ctx context.Context) ([]domain.Identity, error) {
	return s.Store.Identities().List(ctx)
}

func (s *IdentityService) Get(ctx context.Context, id string) (domain.Identity, error) {
	return s.Store.Identities().GetByID(ctx, id)
}

// SetActive enables or disables login for an identity. An already
// established session is left alone.
func (s *IdentityService) SetActive(ctx context.Context, id string, active bool) (domain.Identity, error) {
	if err := s.Store.Identities().SetActive(ctx, id, active); err != nil {
		return domain.Identity{}, err
	}
	slogx.FromContext(ctx).Info("identity activation changed",
		slog.String("identity_id", id),
		slog.Bool("active", active),
	)
	return s.Store.Identities().GetByID(ctx, id)
}
