package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"slice-url/internal/apperr"
	"slice-url/internal/entities"
	"slice-url/internal/repository"
)

const (
	brokenLinkMsg = "You might have clicked on a broken URL."
	unknownSource = "unknown"
)

// ResolverService resolves public short codes
type ResolverService interface {
	// Resolve returns the target of a short id or alias and records the click.
	Resolve(ctx context.Context, code, userAgent, source string) (string, error)
}

type resolverService struct {
	repo   repository.LinkRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewResolverService creates a new resolver
func NewResolverService(repo repository.LinkRepository, logger *slog.Logger) ResolverService {
	return &resolverService{repo: repo, logger: logger, now: time.Now}
}

func (s *resolverService) Resolve(ctx context.Context, code, userAgent, source string) (string, error) {
	if isBlank(code) || len(code) < minCodeLength || len(code) > maxCodeLength {
		return "", apperr.NewInvalidInput(brokenLinkMsg)
	}

	link, err := s.repo.RecordClick(ctx, code, entities.ClickEvent{
		Time:      s.now().UTC(),
		UserAgent: userAgent,
		Source:    sourceOrUnknown(source),
	})
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.NewNotFound(brokenLinkMsg)
	}
	if err != nil {
		return "", apperr.NewInternal(fmt.Errorf("record click: %w", err))
	}

	s.logger.DebugContext(ctx, "link resolved", "code", code, "clicks", link.Clicks)
	return link.OriginalURL, nil
}

func sourceOrUnknown(source string) string {
	if source = strings.TrimSpace(source); source != "" {
		return source
	}
	return unknownSource
}
