package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers expose sub-repositories
// so transactional work goes through WithTx instead of nesting.
type Store interface {
	Identities() Identities
	KV() KV

	ApplyMigrations() error

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Tx exposes the repositories bound to a single transaction.
type Tx interface {
	Identities() Identities
	KV() KV
}

// Identities is the user directory.
type Identities interface {
	// GetByID returns ErrNotFound when no identity has the id.
	GetByID(ctx context.Context, id string) (domain.Identity, error)

	// GetByEmail matches case-insensitively; callers may pass any casing.
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)

	// Create inserts an identity. A duplicate email yields ErrAlreadyExists.
	Create(ctx context.Context, id domain.Identity) error

	// List returns all identities ordered by creation (oldest first).
	List(ctx context.Context) ([]domain.Identity, error)

	// SetActive flips is_active and bumps updated_at.
	SetActive(ctx context.Context, id string, active bool) error

	IsEmpty(ctx context.Context) (bool, error)
}

// KV is the durable key-value boundary used by the session store.
type KV interface {
	// Get returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error

	// Delete is a no-op for a missing key.
	Delete(ctx context.Context, key string) error
}
