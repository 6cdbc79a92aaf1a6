// Package auth implements the credential store: registration with bcrypt
// password hashing and login verification, over a pluggable user store.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"kopilka/internal/core"
)

// ErrInvalidCredentials is returned for an unknown email or a password
// mismatch; callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the slice of the storage layer the authenticator needs.
type UserStore interface {
	// CreateUser persists a new user. Uniqueness violations surface as
	// core.ErrDuplicateEmail / core.ErrDuplicateUsername.
	CreateUser(ctx context.Context, username, email, passwordHash string) (*core.User, error)
	// GetUserByEmail returns nil, nil when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
	GetUserByID(ctx context.Context, id int64) (*core.User, error)
}

// PasswordAuthenticator registers and authenticates users with bcrypt.
type PasswordAuthenticator struct {
	store UserStore
}

func NewPasswordAuthenticator(store UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// Register hashes the raw password and persists a new user. Duplicate email
// or username is detected from the store's uniqueness violation, not by a
// pre-check query.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, email, rawPassword string) (*core.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := a.store.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks the user up by email and verifies the password.
// bcrypt's hash comparison is constant-time.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, rawPassword string) (*core.User, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
