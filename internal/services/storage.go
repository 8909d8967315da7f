package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
)

// DefaultMaxUploadSize matches MAX_FILE_SIZE's default.
const DefaultMaxUploadSize int64 = 10 << 20

type StoredFile struct {
	Filename     string
	OriginalName string
	Path         string
	Size         int64
}

// UploadStore keeps uploaded CV PDFs on local disk under generated names.
type UploadStore interface {
	Save(originalName string, size int64, src io.Reader) (*StoredFile, error)
	Path(filename string) string
	Delete(filename string) error
	EnsureDir() error
}

// DocumentArchive keeps a durable copy of an uploaded document and its text.
type DocumentArchive interface {
	ArchiveDocument(ctx context.Context, key, filePath, text string) (string, error)
}

type uploadStore struct {
	dir     string
	maxSize int64
	logger  *zap.Logger
}

func NewUploadStore(dir string, maxSize int64, log *zap.Logger) UploadStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &uploadStore{
		dir:     dir,
		maxSize: maxSize,
		logger:  logger.OrNop(log).Named("uploads"),
	}
}

func (s *uploadStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// Save validates and writes one PDF. Invalid files return ErrInvalidInput.
func (s *uploadStore) Save(originalName string, size int64, src io.Reader) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".pdf" {
		return nil, fmt.Errorf("%w: only PDF files are allowed, got %q", ErrInvalidInput, ext)
	}
	if size > s.maxSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.maxSize)
	}

	if err := s.EnsureDir(); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("cv_%s%s", uuid.New().String(), ext)
	path := s.Path(filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// One byte over the limit is enough to know the declared size lied.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if written > s.maxSize {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.maxSize)
	}

	s.logger.Debug("stored upload", zap.String("filename", filename), zap.Int64("bytes", written))

	return &StoredFile{
		Filename:     filename,
		OriginalName: originalName,
		Path:         path,
		Size:         written,
	}, nil
}

func (s *uploadStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

func (s *uploadStore) Delete(filename string) error {
	if err := os.Remove(s.Path(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
