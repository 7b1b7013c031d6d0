package app

import (
	"errors"
	"fmt"

	"foodlog/pkg/auth"
	"foodlog/pkg/domain"
	"foodlog/pkg/store"
)

// Config wires the storage backends into the application core.
type Config struct {
	Store    store.Store
	Sessions store.SessionStore
}

// App is the authenticated record service: it validates input, applies the
// caller's verified identity to every store call, and translates store
// results into the domain error taxonomy. It holds no per-request state.
type App struct {
	store    store.Store
	sessions store.SessionStore
}

// New constructs the application core.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	return &App{store: cfg.Store, sessions: cfg.Sessions}, nil
}

// Register creates an account and issues a session token. The plaintext
// password is hashed immediately and never stored or logged.
func (a *App) Register(username, password string) (domain.User, string, error) {
	if username == "" || password == "" {
		return domain.User{}, "", ErrUsernameAndPasswordRequired
	}
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, "", err
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user, err := a.store.CreateUser(username, passwordHash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return domain.User{}, "", ErrUsernameTaken
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}
	token, err := a.sessions.NewSession(domain.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and issues a session token. An unknown
// username and a wrong password are indistinguishable to the caller.
func (a *App) Login(username, password string) (domain.User, string, error) {
	if username == "" || password == "" {
		return domain.User{}, "", ErrUsernameAndPasswordRequired
	}
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(domain.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// IdentityFromToken resolves a bearer token to the verified caller identity.
func (a *App) IdentityFromToken(token string) (domain.Identity, bool) {
	identity, ok, err := a.sessions.IdentityByToken(token)
	if err != nil || !ok {
		return domain.Identity{}, false
	}
	return identity, true
}

// ListRecords returns the caller's records, most recent first.
func (a *App) ListRecords(caller domain.Identity) ([]domain.FoodRecord, error) {
	records, err := a.store.ListRecordsByOwner(caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// GetRecord fetches one of the caller's records. Records owned by someone
// else surface as ErrRecordNotFound.
func (a *App) GetRecord(caller domain.Identity, id int64) (domain.FoodRecord, error) {
	record, ok, err := a.store.GetRecordByIDAndOwner(id, caller.UserID)
	if err != nil {
		return domain.FoodRecord{}, fmt.Errorf("fetch record: %w", err)
	}
	if !ok {
		return domain.FoodRecord{}, ErrRecordNotFound
	}
	return record, nil
}

// CreateRecord validates the fields and persists a record owned by the
// caller. The owner always comes from the verified identity, never from the
// request payload.
func (a *App) CreateRecord(caller domain.Identity, fields domain.RecordFields) (domain.FoodRecord, error) {
	if err := validateRecordFields(fields); err != nil {
		return domain.FoodRecord{}, err
	}
	record, err := a.store.CreateRecord(caller.UserID, fields)
	if err != nil {
		return domain.FoodRecord{}, fmt.Errorf("create record: %w", err)
	}
	return record, nil
}

// UpdateRecord replaces the mutable fields of one of the caller's records.
func (a *App) UpdateRecord(caller domain.Identity, id int64, fields domain.RecordFields) (domain.FoodRecord, error) {
	if err := validateRecordFields(fields); err != nil {
		return domain.FoodRecord{}, err
	}
	record, ok, err := a.store.UpdateRecordByIDAndOwner(id, caller.UserID, fields)
	if err != nil {
		return domain.FoodRecord{}, fmt.Errorf("update record: %w", err)
	}
	if !ok {
		return domain.FoodRecord{}, ErrRecordNotFound
	}
	return record, nil
}

// DeleteRecord removes one of the caller's records. Deleting an id that does
// not exist, or that belongs to someone else, reports ErrRecordNotFound.
func (a *App) DeleteRecord(caller domain.Identity, id int64) error {
	removed, err := a.store.DeleteRecordByIDAndOwner(id, caller.UserID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if !removed {
		return ErrRecordNotFound
	}
	return nil
}

// validateRecordFields requires the three mandatory fields. Tags are
// free-form and default to empty strings via the zero value.
func validateRecordFields(fields domain.RecordFields) error {
	if fields.ShopName == "" || fields.Address == "" || fields.DishName == "" {
		return ErrMissingRecordFields
	}
	return nil
}
