package store

import (
	"errors"

	"foodlog/pkg/domain"
)

// Store defines persistence operations for users and food records. Record
// operations are always scoped to the owning user: a record owned by another
// user is reported as absent, never as forbidden.
type Store interface {
	// users
	CreateUser(username, passwordHash string) (domain.User, error)
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id int64) (domain.User, bool, error)

	// food records
	ListRecordsByOwner(ownerID int64) ([]domain.FoodRecord, error)
	GetRecordByIDAndOwner(id, ownerID int64) (domain.FoodRecord, bool, error)
	CreateRecord(ownerID int64, fields domain.RecordFields) (domain.FoodRecord, error)
	UpdateRecordByIDAndOwner(id, ownerID int64, fields domain.RecordFields) (domain.FoodRecord, bool, error)
	DeleteRecordByIDAndOwner(id, ownerID int64) (bool, error)

	// Close releases the connection pool or file handle.
	Close() error
}

// SessionStore issues and verifies session tokens binding a caller identity.
type SessionStore interface {
	NewSession(identity domain.Identity) (string, error)
	IdentityByToken(token string) (domain.Identity, bool, error)
}

// ErrDuplicateUsername is returned by CreateUser when the username is
// already registered. Usernames are unique and matched case-sensitively.
var ErrDuplicateUsername = errors.New("username already exists")
