package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kopilka/internal/core"
)

// CreateUser inserts a new user. Duplicate email or username is detected
// from the UNIQUE violation rather than a pre-check query, so concurrent
// registrations cannot race past the check.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*core.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, passwordHash,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, "users.email"):
			return nil, core.ErrDuplicateEmail
		case isUniqueViolation(err, "users.username"):
			return nil, core.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user insert id: %w", err)
	}

	return &core.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash}, nil
}

// GetUserByEmail returns nil, nil when no such user exists.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	user := &core.User{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID returns nil, nil when no such user exists.
func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	user := &core.User{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}
