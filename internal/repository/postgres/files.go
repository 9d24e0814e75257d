package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/repository"
)

// FileRepository implements uploaded file metadata persistence.
type FileRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewFileRepository constructs a PostgreSQL-backed file repository.
func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return newFileRepository(pool)
}

func newFileRepository(exec pgExecutor) *FileRepository {
	return &FileRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new file metadata row.
func (r *FileRepository) Create(ctx context.Context, file *domain.UploadedFile) error {
	stmt, args, err := r.builder.Insert("uploaded_files").
		Columns("id", "file_name", "stored_path", "content_type", "size_bytes", "uploaded_by", "created_at").
		Values(file.ID, file.FileName, file.StoredPath, file.ContentType, file.SizeBytes, file.UploadedBy, file.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert file sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert file")
	}

	return nil
}

// GetByID retrieves a file record by its ID.
func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.UploadedFile, error) {
	stmt, args, err := r.builder.Select("id", "file_name", "stored_path", "content_type", "size_bytes", "uploaded_by", "created_at").
		From("uploaded_files").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select file sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var file domain.UploadedFile
	if err := row.Scan(&file.ID, &file.FileName, &file.StoredPath, &file.ContentType, &file.SizeBytes, &file.UploadedBy, &file.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return &file, nil
}

// List retrieves all file records, newest first.
func (r *FileRepository) List(ctx context.Context) ([]domain.UploadedFile, error) {
	stmt, args, err := r.builder.Select("id", "file_name", "stored_path", "content_type", "size_bytes", "uploaded_by", "created_at").
		From("uploaded_files").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list files sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	files := make([]domain.UploadedFile, 0)
	for rows.Next() {
		var file domain.UploadedFile
		if err := rows.Scan(&file.ID, &file.FileName, &file.StoredPath, &file.ContentType, &file.SizeBytes, &file.UploadedBy, &file.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

// Delete removes a file record by ID.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("uploaded_files").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete file sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.FileRepository = (*FileRepository)(nil)
