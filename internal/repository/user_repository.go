package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"slice-url/internal/entities"
)

const userColumns = `id, email, username, full_name, password_hash, auth_type,
	is_account_confirmed, account_confirmation_token, created_at`

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FullName,
		&user.PasswordHash,
		&user.AuthType,
		&user.IsAccountConfirmed,
		&user.AccountConfirmationToken,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		INSERT INTO users (email, username, full_name, password_hash, auth_type,
			is_account_confirmed, account_confirmation_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Email,
		user.Username,
		user.FullName,
		user.PasswordHash,
		user.AuthType,
		user.IsAccountConfirmed,
		user.AccountConfirmationToken,
	))
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (r *userRepository) findOne(ctx context.Context, where string, args ...any) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindByID finds a user by ID (UUID)
func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

// FindByUsername finds a user by username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, `username = $1`, username)
}

// FindByEmailOrUsername finds a user holding either the email or the username
func (r *userRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*entities.User, error) {
	return r.findOne(ctx, `email = $1 OR username = $2`, email, username)
}

func (r *userRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if isInvalidText(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Confirm marks the account as confirmed and clears its confirmation token
func (r *userRepository) Confirm(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE users
		SET is_account_confirmed = TRUE, account_confirmation_token = ''
		WHERE id = $1
	`, id)
}

// UpdatePassword stores a new password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

// UpdateProfile changes username and/or full name; empty values are left untouched
func (r *userRepository) UpdateProfile(ctx context.Context, id, username, fullName string) (*entities.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE(NULLIF($2, ''), username),
			full_name = COALESCE(NULLIF($3, ''), full_name)
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, username, fullName))
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
