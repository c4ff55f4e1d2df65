package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// uniqueViolation reports whether the error is a unique constraint violation
// on the named constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

// insertUser creates the user row. The very first account registered becomes
// the admin; the role is decided inside the insert statement rather than by
// the caller. The subquery alone cannot stop two concurrent first
// registrations from both reading an empty table, so the single-admin rule
// is backed by the users_single_admin_idx partial unique index: the loser of
// that race is retried as a member.
func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, (SELECT CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'member' ELSE 'admin' END))
		RETURNING id, role, created_at`

	args := []any{
		u.Email,
		u.Password.hash,
		u.Name,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Role, &u.CreatedAt)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		case uniqueViolation(err, "users_single_admin_idx"):
			return m.insertMember(ctx, u)
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) insertMember(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, 'member')
		RETURNING id, role, created_at`

	err := m.db.QueryRowContext(ctx, query, u.Email, u.Password.hash, u.Name).Scan(&u.ID, &u.Role, &u.CreatedAt)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) getUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at
		FROM users
		WHERE email = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Password.hash, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}
