package jwtx

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
)

func newTestTickets(t *testing.T) *Tickets {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	tk, err := NewTickets(pemKey, "propdesk", time.Hour)
	require.NoError(t, err)
	return tk
}

func TestIssueAndVerify(t *testing.T) {
	tk := newTestTickets(t)

	raw, err := tk.Issue("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "sid-1", "landlord")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(raw, "."))

	claims, err := tk.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", claims.Subject)
	require.Equal(t, "sid-1", claims.SID)
	require.Equal(t, "landlord", claims.Role)
	require.Equal(t, "propdesk", claims.Issuer)
}

func TestIssueRequiresSID(t *testing.T) {
	_, err := newTestTickets(t).Issue("user", "", "tenant")
	require.ErrorIs(t, err, ErrMissingSID)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	a := newTestTickets(t)
	b := newTestTickets(t)

	raw, err := a.Issue("user", "sid", "tenant")
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := newTestTickets(t).Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyExpiry(t *testing.T) {
	tk := newTestTickets(t)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return issuedAt }

	raw, err := tk.Issue("user", "sid", "vendor")
	require.NoError(t, err)

	tk.now = func() time.Time { return issuedAt.Add(time.Hour + 10*time.Second) }
	_, err = tk.Verify(raw)
	require.NoError(t, err, "within leeway")

	tk.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = tk.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	tk := newTestTickets(t)

	claims := NewClaims("propdesk", "user", "sid", "admin", time.Hour, time.Now())
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("guess"))
	require.NoError(t, err)

	_, err = tk.Verify(raw)
	require.Error(t, err)
}

func TestVerifyIssuer(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	issuerA, err := NewTickets(pemKey, "a", time.Hour)
	require.NoError(t, err)
	issuerB, err := NewTickets(pemKey, "b", time.Hour)
	require.NoError(t, err)

	raw, err := issuerA.Issue("user", "sid", "tenant")
	require.NoError(t, err)

	_, err = issuerB.Verify(raw)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestLoadTicketsReusesKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket.pem")

	first, err := LoadTickets(path, "propdesk", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTicketTTL, first.TTL())

	raw, err := first.Issue("user", "sid", "tenant")
	require.NoError(t, err)

	second, err := LoadTickets(path, "propdesk", 0)
	require.NoError(t, err)

	_, err = second.Verify(raw)
	require.NoError(t, err, "a restart must keep accepting tickets for the persisted session")
}
