package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store/drivers/sqlite"
	"github.com/aussiebroadwan/propdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "propdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newIdentity(email string, role domain.Role) domain.Identity {
	return domain.Identity{
		ID:           idx.New().String(),
		Name:         "Test " + string(role),
		Email:        email,
		Phone:        "+61 400 000 000",
		Role:         role,
		IsActive:     true,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestIdentities(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	repo := st.Identities()

	empty, err := repo.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	sarah := newIdentity("Sarah@Example.com", domain.RolePropertyManager)
	require.NoError(t, repo.Create(ctx, sarah))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, sarah.ID)
		require.NoError(t, err)
		require.Equal(t, "sarah@example.com", got.Email, "emails are stored normalized")
		require.Equal(t, domain.RolePropertyManager, got.Role)
		require.Equal(t, sarah.PasswordHash, got.PasswordHash)
		require.True(t, got.IsActive)
		require.False(t, got.CreatedAt.IsZero())
		require.Equal(t, got.CreatedAt, got.UpdatedAt)
	})

	t.Run("get by email is case insensitive", func(t *testing.T) {
		for _, email := range []string{"sarah@example.com", "SARAH@EXAMPLE.COM", " Sarah@example.com "} {
			got, err := repo.GetByEmail(ctx, email)
			require.NoError(t, err, email)
			require.Equal(t, sarah.ID, got.ID)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = repo.GetByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := newIdentity("SARAH@example.com", domain.RoleTenant)
		require.ErrorIs(t, repo.Create(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("set active", func(t *testing.T) {
		require.NoError(t, repo.SetActive(ctx, sarah.ID, false))
		got, err := repo.GetByID(ctx, sarah.ID)
		require.NoError(t, err)
		require.False(t, got.IsActive)

		require.ErrorIs(t, repo.SetActive(ctx, idx.New().String(), true), store.ErrNotFound)
	})

	t.Run("list in creation order", func(t *testing.T) {
		later := newIdentity("mike@example.com", domain.RoleTenant)
		later.CreatedAt = time.Now().Add(time.Hour)
		require.NoError(t, repo.Create(ctx, later))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, sarah.ID, all[0].ID)
		require.Equal(t, later.ID, all[1].ID)

		empty, err := repo.IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)
	})
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	kv := newStore(t).KV()

	_, err := kv.Get(ctx, "propdesk.session")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "propdesk.session", []byte(`{"a":1}`)))
	got, err := kv.Get(ctx, "propdesk.session")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, kv.Put(ctx, "propdesk.session", []byte(`{"a":2}`)))
	got, err = kv.Get(ctx, "propdesk.session")
	require.NoError(t, err)
	require.Equal(t, `{"a":2}`, string(got))

	require.NoError(t, kv.Delete(ctx, "propdesk.session"))
	require.NoError(t, kv.Delete(ctx, "propdesk.session"), "deleting a missing key is not an error")

	_, err = kv.Get(ctx, "propdesk.session")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := st.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Identities().Create(ctx, newIdentity("tx@example.com", domain.RoleVendor)))
			require.NoError(t, tx.KV().Put(ctx, "k", []byte("v")))
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = st.Identities().GetByEmail(ctx, "tx@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.KV().Get(ctx, "k")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit on success", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Identities().Create(ctx, newIdentity("tx@example.com", domain.RoleVendor))
		})
		require.NoError(t, err)

		_, err = st.Identities().GetByEmail(ctx, "tx@example.com")
		require.NoError(t, err)
	})
}
