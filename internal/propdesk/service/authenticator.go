package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
	"github.com/aussiebroadwan/propdesk/pkg/idx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

// ErrLoginFailed covers unknown email, wrong password and inactive identity
// alike. The distinction is only logged.
var ErrLoginFailed = errors.New("login failed")

// Authenticator exchanges credentials for the current session.
type Authenticator struct {
	Directory store.Identities
	Sessions  *session.Manager

	// TrustAnyPassword accepts any password for a known, active email. Only
	// for fixtures and demo directories.
	TrustAnyPassword bool

	// Latency delays every attempt before the session is touched.
	Latency time.Duration

	Sleep func(time.Duration)
	Now   func() time.Time

	verify func(password, hash string) error
}

// dummyHash is compared against when the email is unknown.
var dummyHash = sync.OnceValue(func() string {
	hash, err := cryptox.HashPassword("propdesk-unknown-identity")
	if err != nil {
		return ""
	}
	return hash
})

// Login reports whether the credentials established a session.
func (a *Authenticator) Login(ctx context.Context, email, password string) bool {
	_, err := a.Authenticate(ctx, email, password)
	return err == nil
}

// Authenticate validates the credentials and, on success, replaces the
// current session. Attempts are not cancellable: cancelling ctx does not stop
// an attempt that has started. The session is only written after the attempt
// has finished, so a Logout that lands later still wins.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (domain.Session, error) {
	ctx = context.WithoutCancel(ctx)
	l := slogx.FromContext(ctx)

	if a.Latency > 0 {
		a.sleep(a.Latency)
	}

	ident, err := a.Directory.GetByEmail(ctx, email)
	found := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, fmt.Errorf("lookup identity: %w", err)
	}

	// Unknown and inactive identities still run a hash comparison.
	passwordOK := a.TrustAnyPassword
	if !a.TrustAnyPassword {
		hash := dummyHash()
		if found {
			hash = ident.PasswordHash
		}
		passwordOK = a.verifyPassword(password, hash) == nil
	}

	switch {
	case !found:
		l.Info("login refused", slog.String("reason", "unknown_email"))
		return domain.Session{}, ErrLoginFailed
	case !ident.IsActive:
		l.Info("login refused", slog.String("reason", "inactive"), slog.String("identity_id", ident.ID))
		return domain.Session{}, ErrLoginFailed
	case !passwordOK:
		l.Info("login refused",
			slog.String("reason", "bad_password"),
			slog.String("identity_id", ident.ID),
		)
		return domain.Session{}, ErrLoginFailed
	}

	sess := domain.Session{
		ID:            idx.New().String(),
		Identity:      ident,
		EstablishedAt: a.now(),
	}
	if err := a.Sessions.Set(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("establish session: %w", err)
	}

	l.Info("session established",
		slog.String("session_id", sess.ID),
		slog.String("identity_id", ident.ID),
		slog.String("role", ident.Role.String()),
	)
	sess.Identity.PasswordHash = ""
	return sess, nil
}

// Logout clears the current session.
func (a *Authenticator) Logout(ctx context.Context) error {
	if err := a.Sessions.Clear(ctx); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("session cleared")
	return nil
}

func (a *Authenticator) sleep(d time.Duration) {
	if a.Sleep != nil {
		a.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (a *Authenticator) verifyPassword(password, hash string) error {
	if a.verify != nil {
		return a.verify(password, hash)
	}
	return cryptox.VerifyPassword(password, hash)
}

func (a *Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}
