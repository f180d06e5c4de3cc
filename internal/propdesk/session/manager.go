// Package session holds the single current session of the process and keeps
// it in sync with a durable key-value record.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
)

// DefaultKey is the KV key holding the serialized session.
const DefaultKey = "propdesk.session"

var ErrClosed = errors.New("session: manager closed")

// Snapshot is an immutable view of the manager state. Version increases on
// every change so listeners can discard out-of-order deliveries.
type Snapshot struct {
	Version uint64
	Loaded  bool
	Session *domain.Session
}

// Identity returns the signed-in identity or nil.
func (s Snapshot) Identity() *domain.Identity {
	if s.Session == nil {
		return nil
	}
	return &s.Session.Identity
}

type Listener func(Snapshot)

type Option func(*Manager)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager owns the current session. Writes to the durable record happen in
// the same critical section as the in-memory update, so the last caller of
// Set or Clear wins in both places. Listeners are invoked outside the lock.
type Manager struct {
	kv     store.KV
	key    string
	logger *slog.Logger

	mu        sync.Mutex
	closed    bool
	version   uint64
	loaded    bool
	current   *domain.Session
	listeners map[uint64]Listener
	nextSub   uint64
}

func NewManager(kv store.KV, opts ...Option) *Manager {
	m := &Manager{
		kv:        kv,
		key:       DefaultKey,
		logger:    slog.Default(),
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load restores the persisted session. A record that cannot be decoded is
// deleted and the manager proceeds empty; that case is logged, not returned.
// Only a failure to read the store is returned; the manager keeps whatever
// session it already holds and is still marked loaded so guards leave the
// loading state.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	var loadErr error

	raw, err := m.kv.Get(ctx, m.key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		m.current = nil
	case err != nil:
		// The in-memory session, if any, is kept.
		loadErr = fmt.Errorf("read session: %w", err)
	default:
		sess, err := decode(raw)
		if err != nil {
			m.logger.Warn("discarding corrupt session record", "key", m.key, "error", err)
			if err := m.kv.Delete(ctx, m.key); err != nil {
				m.logger.Error("failed to delete corrupt session record", "key", m.key, "error", err)
			}
		}
		m.current = sess
	}

	m.loaded = true
	snap, listeners := m.commitLocked()
	m.mu.Unlock()

	notify(snap, listeners)
	return loadErr
}

// Set replaces the current session and persists it.
func (m *Manager) Set(ctx context.Context, sess domain.Session) error {
	sess.Identity.PasswordHash = ""
	if err := sess.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if err := m.kv.Put(ctx, m.key, raw); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	m.current = &sess
	m.loaded = true
	snap, listeners := m.commitLocked()
	m.mu.Unlock()

	notify(snap, listeners)
	return nil
}

// Clear removes the current session and its persisted copy.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if err := m.kv.Delete(ctx, m.key); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("delete session: %w", err)
	}
	m.current = nil
	m.loaded = true
	snap, listeners := m.commitLocked()
	m.mu.Unlock()

	notify(snap, listeners)
	return nil
}

// Current returns a snapshot of the manager state.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn for every subsequent change and returns a func that
// unregisters it. Subscribing to a closed manager is a no-op.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// Close drops all listeners. The persisted record is left in place so the
// next process start restores it.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.closed = true
	clear(m.listeners)
	return nil
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{Version: m.version, Loaded: m.loaded}
	if m.current != nil {
		cp := *m.current
		snap.Session = &cp
	}
	return snap
}

func (m *Manager) commitLocked() (Snapshot, []Listener) {
	m.version++
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	return m.snapshotLocked(), listeners
}

func notify(snap Snapshot, listeners []Listener) {
	for _, fn := range listeners {
		fn(snap)
	}
}

func decode(raw []byte) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return &sess, nil
}
