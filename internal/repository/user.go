package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/domain"
)

var userColumns = []string{
	"id", "name", "email", "phone", "location", "skills", "role", "status",
	"last_seen_at", "created_at", "updated_at",
}

// upsertUserSuffix merges a remote directory entry into the local one.
// Blank remote fields never overwrite local values, a known role stays local,
// and last_seen_at only moves forward.
const upsertUserSuffix = `ON CONFLICT (id) DO UPDATE SET
	name         = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
	email        = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
	phone        = COALESCE(NULLIF(EXCLUDED.phone, ''), users.phone),
	location     = COALESCE(NULLIF(EXCLUDED.location, ''), users.location),
	skills       = COALESCE(NULLIF(EXCLUDED.skills, ''), users.skills),
	status       = COALESCE(NULLIF(EXCLUDED.status, ''), users.status),
	role         = CASE WHEN users.role = 'UNKNOWN' THEN EXCLUDED.role ELSE users.role END,
	last_seen_at = GREATEST(users.last_seen_at, EXCLUDED.last_seen_at),
	updated_at   = NOW()
RETURNING (xmax = 0)`

// UserRepository handles database operations for the user directory.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.Location,
		&u.Skills,
		&u.Role,
		&u.Status,
		&u.LastSeenAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) list(ctx context.Context, qb sq.SelectBuilder) ([]*domain.User, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query, args, err := psql.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

// ListVolunteers returns every volunteer ordered by name.
func (r *UserRepository) ListVolunteers(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, psql.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"role": domain.UserRoleVolunteer}).
		OrderBy("name ASC", "id ASC"))
}

// ListUpdatedSince returns the directory entries changed after since, oldest change first.
// A zero since returns the whole directory.
func (r *UserRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]*domain.User, error) {
	qb := psql.
		Select(userColumns...).
		From("users").
		OrderBy("updated_at ASC", "id ASC")
	if !since.IsZero() {
		qb = qb.Where(sq.Gt{"updated_at": since})
	}
	return r.list(ctx, qb)
}

// Create inserts a user. An empty ID lets the database generate one.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ib := psql.Insert("users")
	if u.ID != "" {
		ib = ib.
			Columns("id", "name", "email", "phone", "location", "skills", "role", "status", "last_seen_at").
			Values(u.ID, u.Name, u.Email, u.Phone, u.Location, u.Skills, u.Role, u.Status, u.LastSeenAt)
	} else {
		ib = ib.
			Columns("name", "email", "phone", "location", "skills", "role", "status", "last_seen_at").
			Values(u.Name, u.Email, u.Phone, u.Location, u.Skills, u.Role, u.Status, u.LastSeenAt)
	}

	query, args, err := ib.Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for user: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Upsert merges a directory entry received from a peer, keyed by ID.
// Returns true if the entry was new.
func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) (bool, error) {
	role := u.Role
	if role == "" {
		role = domain.UserRoleUnknown
	}

	query, args, err := psql.
		Insert("users").
		Columns("id", "name", "email", "phone", "location", "skills", "role", "status", "last_seen_at").
		Values(u.ID, u.Name, u.Email, u.Phone, u.Location, u.Skills, role, u.Status, u.LastSeenAt).
		Suffix(upsertUserSuffix).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build Upsert query for user %s: %w", u.ID, err)
	}

	var inserted bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return inserted, nil
}
