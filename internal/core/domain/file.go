package domain

import (
	"fmt"
	"time"
)

// UploadedFile records metadata about a stored file. The bytes themselves
// live outside this system; only the descriptive record is persisted.
type UploadedFile struct {
	Events

	ID          string
	FileName    string
	StoredPath  string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
	CreatedAt   time.Time
}

// FileNotFound builds the NotFound failure for a missing file record.
func FileNotFound(id string) *Error {
	return NewNotFoundError("file.not_found", fmt.Sprintf("the file with ID %q was not found", id))
}

// ErrEmptyFileName indicates upload metadata without a file name.
var ErrEmptyFileName = NewValidationError("file.empty_name", "the file name must not be empty")
