package service

import (
	"context"
	"fmt"
	"time"

	"slice-url/internal/apperr"
	"slice-url/internal/entities"
	"slice-url/internal/repository"
)

// VisitService counts visits to the application
type VisitService interface {
	Record(ctx context.Context, userAgent, source string) (int64, error)
}

type visitService struct {
	repo repository.VisitRepository
	now  func() time.Time
}

func NewVisitService(repo repository.VisitRepository) VisitService {
	return &visitService{repo: repo, now: time.Now}
}

// Record stores one visit and returns the running total
func (s *visitService) Record(ctx context.Context, userAgent, source string) (int64, error) {
	total, err := s.repo.Record(ctx, entities.Visit{
		Time:      s.now().UTC(),
		UserAgent: userAgent,
		Source:    sourceOrUnknown(source),
	})
	if err != nil {
		return 0, apperr.NewInternal(fmt.Errorf("record visit: %w", err))
	}
	return total, nil
}
