package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mbeaufort/inkwell/internal/common"
)

var (
	// ErrUnknownEmail and ErrInvalidPassword are kept distinct so the login
	// page can tell the visitor which field was wrong.
	ErrUnknownEmail    = errors.New("unknown email address")
	ErrInvalidPassword = errors.New("incorrect password")
)

func NewUserService(db *sql.DB) *UserService {
	return &UserService{m: newUserModel(db)}
}

// RegisterUser creates a new account. The email pre-check gives the common
// duplicate case a clean answer; the unique constraint mapping below it
// covers the race where two registrations with the same email interleave.
func (s *UserService) RegisterUser(ctx context.Context, email, password, name string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	validateName(v, name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Email: email,
		Name:  name,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	_, err := s.m.getUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// LoginUser verifies the credentials and returns the stored user.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrUnknownEmail
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// CreateSession issues a fresh session token for the user. Expired sessions
// are swept opportunistically so the table does not grow without bound.
func (s *UserService) CreateSession(ctx context.Context, userID int) (*Session, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.deleteExpiredSessions(ctx); err != nil {
		return nil, err
	}

	session, err := newSession(userID, SessionTokenTime)
	if err != nil {
		return nil, err
	}

	if err := s.m.insertSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession removes the session identified by the plain token. Unknown
// tokens are a no-op.
func (s *UserService) DeleteSession(ctx context.Context, token string) error {
	return s.m.deleteSession(ctx, hashToken(token))
}

// GetUserBySessionToken resolves a plain session token to its user. A stale
// or unknown token yields ErrNotFound; callers treat that as anonymous.
func (s *UserService) GetUserBySessionToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	return s.m.getUserBySessionHash(ctx, hashToken(token))
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
