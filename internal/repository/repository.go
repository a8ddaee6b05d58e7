package repository

import (
	"context"
	"errors"

	"slice-url/internal/entities"
)

var (
	// ErrNotFound is returned when no record matches the query.
	ErrNotFound = errors.New("repository: record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("repository: unique constraint violated")
)

//go:generate mockgen -destination=../mocks/repository.go -package=mocks slice-url/internal/repository LinkRepository

// LinkRepository defines the storage operations on short links.
//
// Short ids and aliases share one namespace: every code is registered in a code registry
// whose primary key is the code itself, so a write that would reuse any existing code
// fails with ErrConflict.
type LinkRepository interface {
	Create(ctx context.Context, link *entities.Link) (*entities.Link, error)
	FindByShortID(ctx context.Context, shortID string) (*entities.Link, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByCreator(ctx context.Context, creator string) ([]*entities.Link, error)
	Delete(ctx context.Context, shortID string) error
	SetAlias(ctx context.Context, shortID, alias, shortURL string) (*entities.Link, error)
	// RecordClick matches code against both short id and alias, then increments the click
	// counter and appends the event in one atomic step. The returned link does not carry
	// its click history.
	RecordClick(ctx context.Context, code string, click entities.ClickEvent) (*entities.Link, error)
}

// UserRepository defines the storage operations on accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entities.User, error)
	Confirm(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// UpdateProfile changes the non-empty fields and returns the updated user.
	UpdateProfile(ctx context.Context, id, username, fullName string) (*entities.User, error)
}

// VisitRepository counts visits to the application.
type VisitRepository interface {
	// Record stores the visit and returns the total number of visits so far.
	Record(ctx context.Context, visit entities.Visit) (int64, error)
}
