package userservice

import (
	"database/sql"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"

	// SessionTokenTime is how long a login session stays valid.
	SessionTokenTime time.Duration = 7 * 24 * time.Hour
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m *DBModel
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  Password  `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  string `json:"-"`
}

// Session is an opaque login token. Only the SHA-256 hash is stored; the
// plain form travels once to the client inside a cookie.
type Session struct {
	Plain  string    `json:"token"`
	Hash   []byte    `json:"-"`
	UserID int       `json:"-"`
	Expiry time.Time `json:"expiry"`
}
