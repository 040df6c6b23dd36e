package services

import (
	"context"
	"errors"
	"fmt"

	"formsheet/internal/models"
	"formsheet/internal/repositories"

	"go.uber.org/zap"
)

// SubmissionService accepts form entries, one per email, and lists them.
type SubmissionService struct {
	logs      *zap.SugaredLogger
	repo      repositories.SubmissionRepository
	publisher EventPublisher
}

// NewSubmissionService creates a new SubmissionService. publisher may be nil.
func NewSubmissionService(logger *zap.SugaredLogger, repo repositories.SubmissionRepository, publisher EventPublisher) *SubmissionService {
	return &SubmissionService{
		logs:      logger,
		repo:      repo,
		publisher: publisher,
	}
}

// Submit stores the entry unless the email has already submitted one.
func (s *SubmissionService) Submit(ctx context.Context, submission *models.Submission) error {
	if err := s.repo.CreateUnique(ctx, submission); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return fmt.Errorf("%w: %s", ErrAlreadySubmitted, submission.Email)
		}
		return fmt.Errorf("failed to store submission: %w", err)
	}

	publish(s.logs, s.publisher, "submission.created", map[string]interface{}{
		"name":  submission.Name,
		"email": submission.Email,
	})
	return nil
}

// List returns all stored rows, or ErrNoData when there are none.
func (s *SubmissionService) List(ctx context.Context) ([][]string, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}
