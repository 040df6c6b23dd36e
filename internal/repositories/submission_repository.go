package repositories

import (
	"context"

	"formsheet/internal/models"
)

// SubmissionRepository defines the interface for form submission data access.
type SubmissionRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, submission *models.Submission) error
	CreateUnique(ctx context.Context, submission *models.Submission) error
	List(ctx context.Context) ([][]string, error)
}
