package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver copies a saved report to long-term storage.
type Archiver interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}

// ArchiveConfig names an S3-compatible bucket.
type ArchiveConfig struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MinioArchive uploads reports to an S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive connects to cfg.Endpoint and makes sure the bucket exists.
func NewMinioArchive(ctx context.Context, cfg ArchiveConfig) (*MinioArchive, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" || strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("archive endpoint and bucket are required")
	}
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create archive client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinioArchive{client: cli, bucket: cfg.Bucket}, nil
}

// Upload stores the file at localPath under key and returns its URL.
func (a *MinioArchive) Upload(ctx context.Context, localPath, key string) (string, error) {
	_, err := a.client.FPutObject(ctx, a.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	u := *a.client.EndpointURL()
	u.Path = "/" + a.bucket + "/" + key
	return u.String(), nil
}

// ArchiveKey is the object key for a report saved at t.
func ArchiveKey(t time.Time, requestID string) string {
	id := strings.TrimSpace(requestID)
	if id == "" {
		id = fmt.Sprintf("report-%d", t.Unix())
	}
	return fmt.Sprintf("reports/%s/%s.pdf", t.UTC().Format("2006-01-02"), id)
}
