package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
)

const identityColumns = `id, name, email, phone, role, is_active, password_hash, created_at, updated_at`

type identitiesRepo struct {
	q   querier
	now func() time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (domain.Identity, error) {
	var (
		id                   domain.Identity
		role                 string
		createdAt, updatedAt string
	)
	err := row.Scan(&id.ID, &id.Name, &id.Email, &id.Phone, &role, &id.IsActive, &id.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return domain.Identity{}, err
	}

	if id.Role, err = domain.ParseRole(role); err != nil {
		return domain.Identity{}, err
	}
	if id.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Identity{}, err
	}
	if id.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

func (r *identitiesRepo) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	ident, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return ident, nil
}

func (r *identitiesRepo) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE email = ? COLLATE NOCASE`,
		domain.NormalizeEmail(email),
	)
	ident, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return ident, nil
}

func (r *identitiesRepo) Create(ctx context.Context, id domain.Identity) error {
	now := r.now()
	if id.CreatedAt.IsZero() {
		id.CreatedAt = now
	}
	if id.UpdatedAt.IsZero() {
		id.UpdatedAt = id.CreatedAt
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO identities (`+identityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.ID,
		id.Name,
		domain.NormalizeEmail(id.Email),
		id.Phone,
		string(id.Role),
		id.IsActive,
		id.PasswordHash,
		formatTime(id.CreatedAt),
		formatTime(id.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert identity: %w", mapConstraint(err))
	}
	return nil
}

func (r *identitiesRepo) List(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+identityColumns+` FROM identities ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

func (r *identitiesRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE identities SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, formatTime(r.now()), id,
	)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *identitiesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count); err != nil {
		return false, fmt.Errorf("count identities: %w", err)
	}
	return count == 0, nil
}
