package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store/drivers/sqlite"
	"github.com/aussiebroadwan/propdesk/pkg/idx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

// memKV is an in-memory store.KV with injectable failures.
type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet error
	failPut error
	failDel error
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (k *memKV) Get(_ context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.failGet != nil {
		return nil, k.failGet
	}
	v, ok := k.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (k *memKV) Put(_ context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.failPut != nil {
		return k.failPut
	}
	k.data[key] = value
	return nil
}

func (k *memKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.failDel != nil {
		return k.failDel
	}
	delete(k.data, key)
	return nil
}

func (k *memKV) has(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.data[key]
	return ok
}

func newSession(role domain.Role) domain.Session {
	return domain.Session{
		ID: idx.New().String(),
		Identity: domain.Identity{
			ID:           idx.New().String(),
			Name:         "Sarah Johnson",
			Email:        "sarah@example.com",
			Phone:        "+61 400 111 222",
			Role:         role,
			IsActive:     true,
			PasswordHash: "$argon2id$secret",
			CreatedAt:    time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		EstablishedAt: time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
	}
}

func newManager(kv store.KV) *session.Manager {
	return session.NewManager(kv, session.WithLogger(slogx.Discard()))
}

func TestInitialStateIsLoading(t *testing.T) {
	m := newManager(newMemKV())
	snap := m.Current()
	require.False(t, snap.Loaded)
	require.Nil(t, snap.Session)
	require.Nil(t, snap.Identity())
}

func TestLoadEmpty(t *testing.T) {
	m := newManager(newMemKV())
	require.NoError(t, m.Load(context.Background()))

	snap := m.Current()
	require.True(t, snap.Loaded)
	require.Nil(t, snap.Session)
}

func TestSetPersistsAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	sess := newSession(domain.RoleLandlord)

	m := newManager(kv)
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.Set(ctx, sess))

	raw, err := kv.Get(ctx, session.DefaultKey)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "argon2id", "password hash is never persisted")
	require.Contains(t, string(raw), `"establishedAt":"2026-10-17T08:00:00Z"`)
	require.Contains(t, string(raw), `"createdAt":"2024-01-15T09:30:00Z"`)

	// A fresh manager over the same storage restores the session, dates included.
	fresh := newManager(kv)
	require.NoError(t, fresh.Load(ctx))

	got := fresh.Current().Session
	require.NotNil(t, got)
	require.Equal(t, sess.ID, got.ID)
	require.Equal(t, sess.Identity.ID, got.Identity.ID)
	require.Equal(t, domain.RoleLandlord, got.Identity.Role)
	require.Empty(t, got.Identity.PasswordHash)
	require.True(t, sess.EstablishedAt.Equal(got.EstablishedAt))
	require.True(t, sess.Identity.CreatedAt.Equal(got.Identity.CreatedAt))
	require.True(t, sess.Identity.UpdatedAt.Equal(got.Identity.UpdatedAt))
}

func TestClearThenFreshLoadIsEmpty(t *testing.T) {
	ctx := context.Background()
	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "propdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	m := newManager(st.KV())
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.Set(ctx, newSession(domain.RoleTenant)))
	require.NoError(t, m.Clear(ctx))
	require.Nil(t, m.Current().Session)
	require.NoError(t, m.Close())

	fresh := newManager(st.KV())
	require.NoError(t, fresh.Load(ctx))
	require.True(t, fresh.Current().Loaded)
	require.Nil(t, fresh.Current().Session)
}

func TestLoadDiscardsCorruptRecord(t *testing.T) {
	tests := map[string]string{
		"not json":      `this is not json`,
		"truncated":     `{"id":"01J`,
		"wrong shape":   `[1,2,3]`,
		"unknown role":  `{"id":"s1","identity":{"id":"u1","email":"a@b.c","role":"owner"},"establishedAt":"2026-10-17T08:00:00Z"}`,
		"missing email": `{"id":"s1","identity":{"id":"u1","role":"tenant"},"establishedAt":"2026-10-17T08:00:00Z"}`,
		"bad date":      `{"id":"s1","identity":{"id":"u1","email":"a@b.c","role":"tenant"},"establishedAt":"yesterday"}`,
		"empty object":  `{}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newMemKV()
			require.NoError(t, kv.Put(ctx, session.DefaultKey, []byte(payload)))

			m := newManager(kv)
			require.NoError(t, m.Load(ctx))

			snap := m.Current()
			require.True(t, snap.Loaded)
			require.Nil(t, snap.Session)
			require.False(t, kv.has(session.DefaultKey), "corrupt entry is deleted")
		})
	}
}

func TestLoadCorruptRecordDeleteFailureStillEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	require.NoError(t, kv.Put(ctx, session.DefaultKey, []byte(`garbage`)))
	kv.failDel = errors.New("disk full")

	m := newManager(kv)
	require.NoError(t, m.Load(ctx))
	require.True(t, m.Current().Loaded)
	require.Nil(t, m.Current().Session)
}

func TestLoadReadFailure(t *testing.T) {
	kv := newMemKV()
	kv.failGet = errors.New("connection refused")

	m := newManager(kv)
	err := m.Load(context.Background())
	require.ErrorContains(t, err, "connection refused")

	snap := m.Current()
	require.True(t, snap.Loaded, "a read failure still resolves the loading state")
	require.Nil(t, snap.Session)
}

func TestLoadReadFailureKeepsCurrentSession(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	m := newManager(kv)
	require.NoError(t, m.Load(ctx))

	sess := newSession(domain.RoleLandlord)
	require.NoError(t, m.Set(ctx, sess))

	kv.mu.Lock()
	kv.failGet = errors.New("i/o timeout")
	kv.mu.Unlock()

	require.ErrorContains(t, m.Load(ctx), "i/o timeout")

	snap := m.Current()
	require.True(t, snap.Loaded)
	require.NotNil(t, snap.Session)
	require.Equal(t, sess.ID, snap.Session.ID)
	require.True(t, kv.has(session.DefaultKey))
}

func TestSetFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	m := newManager(kv)
	require.NoError(t, m.Load(ctx))

	first := newSession(domain.RoleTenant)
	require.NoError(t, m.Set(ctx, first))

	kv.failPut = errors.New("read-only")
	require.Error(t, m.Set(ctx, newSession(domain.RoleVendor)))
	require.Equal(t, first.ID, m.Current().Session.ID)

	kv.failDel = errors.New("read-only")
	require.Error(t, m.Clear(ctx))
	require.Equal(t, first.ID, m.Current().Session.ID)
}

func TestSetRejectsInvalidSession(t *testing.T) {
	m := newManager(newMemKV())
	sess := newSession(domain.RoleTenant)
	sess.Identity.Role = "owner"
	require.ErrorIs(t, m.Set(context.Background(), sess), domain.ErrInvalidSession)
}

func TestCustomKey(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	m := session.NewManager(kv, session.WithKey("custom"), session.WithLogger(slogx.Discard()))
	require.NoError(t, m.Set(ctx, newSession(domain.RoleTenant)))
	require.True(t, kv.has("custom"))
	require.False(t, kv.has(session.DefaultKey))
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	m := newManager(newMemKV())
	require.NoError(t, m.Set(ctx, newSession(domain.RoleTenant)))

	snap := m.Current()
	snap.Session.Identity.Role = domain.RoleAdmin
	require.Equal(t, domain.RoleTenant, m.Current().Session.Identity.Role)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	m := newManager(newMemKV())

	var got []session.Snapshot
	unsubscribe := m.Subscribe(func(s session.Snapshot) { got = append(got, s) })

	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.Set(ctx, newSession(domain.RoleTenant)))
	require.NoError(t, m.Clear(ctx))

	require.Len(t, got, 3)
	require.True(t, got[0].Loaded)
	require.Nil(t, got[0].Session)
	require.NotNil(t, got[1].Session)
	require.Nil(t, got[2].Session)
	require.Less(t, got[0].Version, got[1].Version)
	require.Less(t, got[1].Version, got[2].Version)

	unsubscribe()
	unsubscribe()
	require.NoError(t, m.Set(ctx, newSession(domain.RoleTenant)))
	require.Len(t, got, 3)
}

func TestListenerMayReadManager(t *testing.T) {
	ctx := context.Background()
	m := newManager(newMemKV())

	var seen *domain.Session
	m.Subscribe(func(session.Snapshot) { seen = m.Current().Session })

	sess := newSession(domain.RoleVendor)
	require.NoError(t, m.Set(ctx, sess))
	require.NotNil(t, seen)
	require.Equal(t, sess.ID, seen.ID)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	m := newManager(kv)
	require.NoError(t, m.Set(ctx, newSession(domain.RoleTenant)))

	calls := 0
	m.Subscribe(func(session.Snapshot) { calls++ })

	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Close(), session.ErrClosed)
	require.ErrorIs(t, m.Load(ctx), session.ErrClosed)
	require.ErrorIs(t, m.Set(ctx, newSession(domain.RoleTenant)), session.ErrClosed)
	require.ErrorIs(t, m.Clear(ctx), session.ErrClosed)
	require.Zero(t, calls)
	require.True(t, kv.has(session.DefaultKey), "close keeps the persisted record")
}

func TestConcurrentWritersLastWins(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	m := newManager(kv)
	require.NoError(t, m.Load(ctx))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = m.Set(ctx, newSession(domain.RoleTenant))
			} else {
				_ = m.Clear(ctx)
			}
		}()
	}
	wg.Wait()

	// Memory and storage agree on whichever writer went last.
	fresh := newManager(kv)
	require.NoError(t, fresh.Load(ctx))
	if cur := m.Current().Session; cur == nil {
		require.Nil(t, fresh.Current().Session)
	} else {
		require.Equal(t, cur.ID, fresh.Current().Session.ID)
	}
}
