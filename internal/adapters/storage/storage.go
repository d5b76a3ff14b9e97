// Package storage provides object storage access for externally rendered
// quote documents. The backend never renders documents itself; it only hands
// out and consumes presigned references.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"tejwal_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL bounds how long a presigned document link stays valid.
const PresignedURLTTL = 15 * time.Minute

// PresignedURL is a time-limited object reference.
type PresignedURL struct {
	URL       string
	FileKey   string
	ExpiresAt time.Time
}

// MinIOService serves presigned URLs for the quote-documents bucket.
type MinIOService struct {
	client *minio.Client
	bucket string
}

// NewMinIOService connects to MinIO. Returns an error when storage is not
// configured; callers treat a nil service as "no documents available".
func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOService{
		client: client,
		bucket: cfg.GetMinioBucketQuoteDocuments(),
	}, nil
}

// EnsureBucketExists creates the quote-documents bucket on first run.
func (s *MinIOService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// PresignDocument returns a time-limited download URL for a stored document.
func (s *MinIOService) PresignDocument(ctx context.Context, fileKey string) (*PresignedURL, error) {
	if s == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	expiresAt := time.Now().Add(PresignedURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("presign document %s: %w", fileKey, err)
	}

	return &PresignedURL{
		URL:       presigned.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
	}, nil
}
