package clients

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const logoPrefix = "client-logos/"

// LogoStorage keeps client logos in a single bucket and hands back the
// public URL the dashboard can embed directly.
type LogoStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string

	ensureOnce sync.Once
	ensureErr  error
}

func NewLogoStorage(client *minio.Client, bucket, publicURL string) *LogoStorage {
	return &LogoStorage{
		client:    client,
		bucket:    strings.TrimSpace(bucket),
		publicURL: strings.TrimRight(strings.TrimSpace(publicURL), "/"),
	}
}

func (s *LogoStorage) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, s.ensureErr)
	}

	return nil
}

// Upload stores the logo under a fresh random key, keeping the original file
// extension, and returns the public URL.
func (s *LogoStorage) Upload(ctx context.Context, filename string, body io.Reader, size int64, contentType string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("s3 client is nil")
	}
	if body == nil || size <= 0 {
		return "", ErrValidation
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return "", err
	}

	key := logoPrefix + uuid.NewString() + strings.ToLower(path.Ext(filename))
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put logo to s3: %w", err)
	}

	return s.publicURL + "/" + s.bucket + "/" + key, nil
}

func (s *LogoStorage) Delete(ctx context.Context, objectURL string) error {
	if s.client == nil || objectURL == "" {
		return nil
	}

	base := s.publicURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(objectURL, base) {
		return nil
	}

	key := strings.TrimPrefix(objectURL, base)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete logo object: %w", err)
	}

	return nil
}
