package port

import (
	"context"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// FileRepository exposes persistence operations for uploaded file metadata.
type FileRepository interface {
	Create(ctx context.Context, file *domain.UploadedFile) error
	GetByID(ctx context.Context, id string) (*domain.UploadedFile, error)
	List(ctx context.Context) ([]domain.UploadedFile, error)
	Delete(ctx context.Context, id string) error
}
