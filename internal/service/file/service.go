package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// ErrFileNotFound is returned when an archived file no longer exists
var ErrFileNotFound = errors.New("archived file not found")

type FileService interface {
	// ArchivePunchFile stores an uploaded punch export under the result set it produced
	ArchivePunchFile(ctx context.Context, resultSetID string, uploadedAt time.Time, file io.Reader, filename string) (string, error)

	// OpenArchive reads back an archived punch export
	OpenArchive(ctx context.Context, path string) (io.ReadCloser, error)

	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// ArchivePunchFile writes to timeclock/{date}/{resultSetID}-{random}{ext}
func (s *fileServiceImpl) ArchivePunchFile(ctx context.Context, resultSetID string, uploadedAt time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if resultSetID == "" {
		resultSetID = uuid.New().String()
	}

	newFilename := fmt.Sprintf("%s-%s%s", resultSetID, uuid.New().String()[:8], ext)
	path := filepath.Join("timeclock", uploadedAt.UTC().Format("2006-01-02"), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path, ContentTypeFor(ext))
	if err != nil {
		return "", fmt.Errorf("failed to archive punch file: %w", err)
	}

	return uploadedPath, nil
}

func (s *fileServiceImpl) OpenArchive(ctx context.Context, path string) (io.ReadCloser, error) {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check archived file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return s.storage.Download(ctx, path)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// ContentTypeFor returns the MIME type stored with a punch file extension
func ContentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	case ".txt", ".tsv":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
