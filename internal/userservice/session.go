package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"errors"
	"time"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newSession(userID int, ttl time.Duration) (*Session, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Plain:  base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID: userID,
		Expiry: time.Now().Add(ttl),
	}

	session.Hash = hashToken(session.Plain)

	return session, nil
}

func (m *DBModel) insertSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, expiry)
		VALUES ($1, $2, $3)`

	_, err := m.db.ExecContext(ctx, query, session.Hash, session.UserID, session.Expiry)
	return err
}

// deleteSession removes the session row if it exists. Deleting an unknown
// token is not an error, so logout stays idempotent.
func (m *DBModel) deleteSession(ctx context.Context, tokenHash []byte) error {
	query := `
		DELETE FROM sessions
		WHERE token_hash = $1`

	_, err := m.db.ExecContext(ctx, query, tokenHash)
	return err
}

func (m *DBModel) getUserBySessionHash(ctx context.Context, tokenHash []byte) (*User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.role, u.created_at
		FROM users u
		INNER JOIN sessions s ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expiry > $2`

	var u User

	err := m.db.QueryRowContext(ctx, query, tokenHash, time.Now()).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
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

func (m *DBModel) deleteExpiredSessions(ctx context.Context) error {
	query := `
		DELETE FROM sessions
		WHERE expiry <= $1`

	_, err := m.db.ExecContext(ctx, query, time.Now())
	return err
}
