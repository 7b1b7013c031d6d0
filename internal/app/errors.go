package app

import "errors"

var (
	// ErrInvalidCredentials covers both unknown username and wrong password.
	// The single message prevents account enumeration through login probing.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameAndPasswordRequired = errors.New("username and password are required")
	ErrUsernameTaken               = errors.New("username already exists")

	ErrMissingRecordFields = errors.New("shopName, address and dishName are required")
	ErrRecordNotFound      = errors.New("record not found")
)
