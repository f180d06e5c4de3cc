package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("directory already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapDisabled     = errors.New("bootstrap disabled")
)

// BootstrapService creates the first admin identity of an empty directory.
type BootstrapService struct {
	Store store.Store
	Token string
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Identities().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap registers admin when token matches and the directory is empty.
// The role of admin is forced to RoleAdmin.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, admin NewIdentity) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	if s.Token == "" {
		return domain.Identity{}, ErrBootstrapDisabled
	}
	if !cryptox.TokensEqual(token, s.Token) {
		l.Warn("unauthorized bootstrap attempt", slog.String("token_fingerprint", cryptox.FingerprintToken(token)))
		return domain.Identity{}, ErrBootstrapUnauthorized
	}

	admin.Role = domain.RoleAdmin
	admin.Inactive = false
	ident, err := admin.build()
	if err != nil {
		return domain.Identity{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Identities().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return tx.Identities().Create(ctx, ident)
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped directory")
		}
		return domain.Identity{}, err
	}

	l.Info("bootstrapped directory", slog.String("admin_id", ident.ID))
	ident.PasswordHash = ""
	return ident, nil
}
