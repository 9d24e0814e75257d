package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/repository"
)

// RecordUploadInput captures metadata describing an uploaded file. The file
// bytes are stored elsewhere; only the record enters this system.
type RecordUploadInput struct {
	FileName    string
	StoredPath  string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
}

// FileService manages uploaded file metadata records.
type FileService struct {
	uow    port.UnitOfWork
	files  port.FileRepository
	logger *zap.Logger
}

// NewFileService constructs a FileService.
func NewFileService(uow port.UnitOfWork, files port.FileRepository, log *zap.Logger) *FileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileService{uow: uow, files: files, logger: log}
}

// RecordUpload persists a new file metadata record.
func (s *FileService) RecordUpload(ctx context.Context, input RecordUploadInput) (*domain.UploadedFile, error) {
	if strings.TrimSpace(input.FileName) == "" {
		return nil, domain.ErrEmptyFileName
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	now := time.Now().UTC()
	file := &domain.UploadedFile{
		ID:          uuid.Must(uuid.NewV7()).String(),
		FileName:    strings.TrimSpace(input.FileName),
		StoredPath:  input.StoredPath,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		UploadedBy:  input.UploadedBy,
		CreatedAt:   now,
	}
	file.Raise(domain.FileUploadedEvent{
		FileID:     file.ID,
		FileName:   file.FileName,
		UploadedBy: file.UploadedBy,
		UploadedAt: now,
	})

	if err := work.Files().Create(ctx, file); err != nil {
		return nil, fmt.Errorf("create file record: %w", err)
	}
	work.Register(file)

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, err
	}

	return file, nil
}

// Delete removes a file metadata record.
func (s *FileService) Delete(ctx context.Context, id string) error {
	work, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	file, err := work.Files().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.FileNotFound(id)
		}
		return fmt.Errorf("get file record: %w", err)
	}

	file.Raise(domain.FileDeletedEvent{
		FileID:    file.ID,
		FileName:  file.FileName,
		DeletedAt: time.Now().UTC(),
	})
	work.Register(file)

	if err := work.Files().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}

	_, err = work.SaveChanges(ctx)
	return err
}

// Get fetches a single file record by ID.
func (s *FileService) Get(ctx context.Context, id string) (*domain.UploadedFile, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.FileNotFound(id)
		}
		return nil, fmt.Errorf("get file record: %w", err)
	}
	return file, nil
}

// List returns all file records, newest first.
func (s *FileService) List(ctx context.Context) ([]domain.UploadedFile, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list file records: %w", err)
	}
	return files, nil
}
