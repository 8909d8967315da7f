package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
)

const (
	originalsPrefix = "originals"
	parsedPrefix    = "parsed"
)

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	Location        string
}

// objectClient is the part of *minio.Client the archive uses.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIOArchive keeps a copy of every uploaded CV, the original PDF and the
// extracted text, in one bucket.
type MinIOArchive struct {
	client   objectClient
	bucket   string
	location string
	logger   *zap.Logger
}

// NewMinIOArchive returns nil and no error when no endpoint is configured.
func NewMinIOArchive(cfg MinIOConfig, log *zap.Logger) (*MinIOArchive, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, nil
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newMinIOArchive(client, cfg, log), nil
}

func newMinIOArchive(client objectClient, cfg MinIOConfig, log *zap.Logger) *MinIOArchive {
	return &MinIOArchive{
		client:   client,
		bucket:   cfg.Bucket,
		location: cfg.Location,
		logger:   logger.OrNop(log).Named("minio"),
	}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (m *MinIOArchive) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.location}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	m.logger.Info("bucket created", zap.String("bucket", m.bucket))

	return nil
}

// ArchiveDocument uploads the source file and its extracted text under key and
// returns the URI of the original.
func (m *MinIOArchive) ArchiveDocument(ctx context.Context, key, filePath, text string) (string, error) {
	originalName := path.Join(originalsPrefix, key+path.Ext(filePath))
	if _, err := m.client.FPutObject(ctx, m.bucket, originalName, filePath,
		minio.PutObjectOptions{ContentType: "application/pdf"}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", originalName, err)
	}

	parsedName := path.Join(parsedPrefix, key+".txt")
	if _, err := m.client.PutObject(ctx, m.bucket, parsedName, strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", parsedName, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", m.bucket, originalName)
	m.logger.Debug("document archived", zap.String("uri", uri))

	return uri, nil
}
