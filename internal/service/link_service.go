package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/skip2/go-qrcode"

	"slice-url/internal/apperr"
	"slice-url/internal/entities"
	"slice-url/internal/repository"
)

const (
	maxCreateRetries   = 5
	defaultRetryDelay  = 10 * time.Millisecond
	qrCodeSize         = 256
	invalidLinkIDMsg   = "Invalid link id"
	linkNotFoundMsg    = "Link not found"
	accessDeniedMsg    = "You do not have permission to access this resource"
	operationDeniedMsg = "You do not have permission to perform this operation"
	invalidAliasMsg    = "Invalid link alias. The alias must be at least 3 characters long and up to 10 characters long, and should contain only numbers and lowercase letters (a-z)."
)

// ShortIDGenerator produces candidate short ids.
type ShortIDGenerator interface {
	Generate() string
}

// LinkService defines the interface for link management business logic
type LinkService interface {
	Create(ctx context.Context, originalURL, ownerID, baseURL string) (*entities.Link, error)
	List(ctx context.Context, ownerID string) ([]*entities.Link, error)
	Get(ctx context.Context, shortID, ownerID string) (*entities.Link, error)
	Delete(ctx context.Context, shortID, ownerID string) error
	SetAlias(ctx context.Context, shortID, ownerID, alias, baseURL string) (*entities.Link, error)
	QRCode(ctx context.Context, shortID, ownerID string) ([]byte, error)
}

type linkService struct {
	repo       repository.LinkRepository
	generator  ShortIDGenerator
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewLinkService creates a new link service
func NewLinkService(repo repository.LinkRepository, generator ShortIDGenerator, logger *slog.Logger) LinkService {
	return &linkService{
		repo:       repo,
		generator:  generator,
		logger:     logger,
		retryDelay: defaultRetryDelay,
	}
}

// Create shortens originalURL for ownerID. A short id already taken in storage is
// replaced by a fresh one up to maxCreateRetries times.
func (s *linkService) Create(ctx context.Context, originalURL, ownerID, baseURL string) (*entities.Link, error) {
	if isBlank(originalURL) {
		return nil, apperr.NewInvalidInput("Original Url is required")
	}
	if err := validateURL(originalURL); err != nil {
		return nil, err
	}

	var created *entities.Link
	backoff := retry.WithMaxRetries(maxCreateRetries, retry.NewConstant(s.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		shortID := s.generator.Generate()
		link, err := s.repo.Create(ctx, &entities.Link{
			ShortID:     shortID,
			OriginalURL: originalURL,
			ShortURL:    joinURL(baseURL, shortID),
			Creator:     ownerID,
		})
		if errors.Is(err, repository.ErrConflict) {
			s.logger.WarnContext(ctx, "short id collision", "short_id", shortID)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		created = link
		return nil
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperr.NewConflict("There was an conflict error")
	}
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("create link: %w", err))
	}

	s.logger.InfoContext(ctx, "link created", "short_id", created.ShortID, "creator", ownerID)
	return created, nil
}

// List returns the links created by ownerID in creation order
func (s *linkService) List(ctx context.Context, ownerID string) ([]*entities.Link, error) {
	links, err := s.repo.ListByCreator(ctx, ownerID)
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("list links: %w", err))
	}
	return links, nil
}

// findOwned loads a link and checks that ownerID created it. The existence check runs
// before the ownership check so a stranger sees Forbidden, not NotFound.
func (s *linkService) findOwned(ctx context.Context, shortID, ownerID, deniedMsg string) (*entities.Link, error) {
	if isBlank(shortID) || len(shortID) < minShortIDLength {
		return nil, apperr.NewInvalidInput(invalidLinkIDMsg)
	}

	link, err := s.repo.FindByShortID(ctx, shortID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NewNotFound(linkNotFoundMsg)
	}
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("find link: %w", err))
	}

	if link.Creator != ownerID {
		return nil, apperr.NewForbidden(deniedMsg)
	}
	return link, nil
}

func (s *linkService) Get(ctx context.Context, shortID, ownerID string) (*entities.Link, error) {
	return s.findOwned(ctx, shortID, ownerID, accessDeniedMsg)
}

func (s *linkService) Delete(ctx context.Context, shortID, ownerID string) error {
	if _, err := s.findOwned(ctx, shortID, ownerID, operationDeniedMsg); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, shortID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NewNotFound(linkNotFoundMsg)
	}
	if err != nil {
		return apperr.NewInternal(fmt.Errorf("delete link: %w", err))
	}

	s.logger.InfoContext(ctx, "link deleted", "short_id", shortID)
	return nil
}

// SetAlias gives the link a custom code. Aliases share the short id namespace, so an
// alias equal to any existing short id or alias is rejected, including the link's own.
func (s *linkService) SetAlias(ctx context.Context, shortID, ownerID, alias, baseURL string) (*entities.Link, error) {
	if isBlank(shortID) || len(shortID) < minShortIDLength {
		return nil, apperr.NewInvalidInput(invalidLinkIDMsg)
	}
	if isBlank(alias) || !isValidAlias(alias) {
		return nil, apperr.NewInvalidInput(invalidAliasMsg)
	}

	if _, err := s.findOwned(ctx, shortID, ownerID, operationDeniedMsg); err != nil {
		return nil, err
	}

	alias = strings.ToLower(alias)
	aliasTaken := apperr.NewConflict(fmt.Sprintf("This alias (%s) is already exists. Try a different one", alias))

	exists, err := s.repo.CodeExists(ctx, alias)
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("check alias: %w", err))
	}
	if exists {
		return nil, aliasTaken
	}

	link, err := s.repo.SetAlias(ctx, shortID, alias, joinURL(baseURL, alias))
	switch {
	case errors.Is(err, repository.ErrConflict):
		return nil, aliasTaken
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NewNotFound(linkNotFoundMsg)
	case err != nil:
		return nil, apperr.NewInternal(fmt.Errorf("set alias: %w", err))
	}

	s.logger.InfoContext(ctx, "link alias updated", "short_id", shortID, "alias", alias)
	return link, nil
}

// QRCode renders the link's short URL as a PNG
func (s *linkService) QRCode(ctx context.Context, shortID, ownerID string) ([]byte, error) {
	link, err := s.findOwned(ctx, shortID, ownerID, accessDeniedMsg)
	if err != nil {
		return nil, err
	}

	// 256x256 pixels, medium error recovery
	qr, err := qrcode.New(link.ShortURL, qrcode.Medium)
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("generate qr code: %w", err))
	}
	png, err := qr.PNG(qrCodeSize)
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("encode qr code: %w", err))
	}
	return png, nil
}

func joinURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/" + code
}
