// Package storage provides object storage backends for generated PDFs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	infraconfig "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/config"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/printing"
)

var (
	_ printing.PDFStorage        = (*S3PDFStorage)(nil)
	_ printing.SignedURLProvider = (*S3PDFStorage)(nil)
)

// S3PDFStorage keeps generated PDFs in an S3 bucket.
// It is compatible with any S3-compatible storage (AWS S3, RustFS, MinIO, etc.)
type S3PDFStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	prefix            string
	baseURL           string
	presignExpiration time.Duration
	now               func() time.Time
	logger            *zap.Logger
}

// S3PDFStorageOption is a functional option for configuring S3PDFStorage
type S3PDFStorageOption func(*S3PDFStorage)

// WithLogger sets a custom logger for S3PDFStorage
func WithLogger(logger *zap.Logger) S3PDFStorageOption {
	return func(s *S3PDFStorage) {
		s.logger = logger
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3PDFStorageOption {
	return func(s *S3PDFStorage) {
		s.presignExpiration = d
	}
}

// WithClock overrides the clock used for object paths
func WithClock(now func() time.Time) S3PDFStorageOption {
	return func(s *S3PDFStorage) {
		s.now = now
	}
}

// NewS3PDFStorage creates a new S3PDFStorage from configuration.
func NewS3PDFStorage(cfg *infraconfig.StorageConfig, opts ...S3PDFStorageOption) (*S3PDFStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	// Validate required configuration
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // session token (not used for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	storage := &S3PDFStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		prefix:            strings.Trim(cfg.Prefix, "/"),
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		presignExpiration: cfg.PresignExpiration,
		now:               time.Now,
		logger:            zap.NewNop(),
	}
	if storage.baseURL == "" {
		storage.baseURL = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}

	for _, opt := range opts {
		opt(storage)
	}

	if storage.presignExpiration == 0 {
		storage.presignExpiration = 15 * time.Minute
	}

	return storage, nil
}

// normalizeEndpoint adds a scheme when missing and validates the result
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		endpoint = "http://localhost:9000" // RustFS default
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint: %q", endpoint)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3PDFStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created successfully", zap.String("bucket", s.bucket))
	return nil
}

// key maps a storage path to an object key under the configured prefix
func (s *S3PDFStorage) key(path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "storage path is required", nil)
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "invalid path", nil)
		}
	}
	if s.prefix == "" {
		return path, nil
	}
	return s.prefix + "/" + path, nil
}

// Store uploads the PDF under {prefix}/{tenant_id}/{doc_type}/{year}/{month}/{job_id}.pdf
func (s *S3PDFStorage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	path := req.ObjectPath(s.now())
	key, err := s.key(path)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(req.PDFData),
		ContentLength: aws.Int64(int64(len(req.PDFData))),
		ContentType:   aws.String("application/pdf"),
		Metadata: map[string]string{
			"tenant-id": req.TenantID.String(),
			"job-id":    req.JobID.String(),
			"doc-type":  req.DocType.String(),
		},
	})
	if err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	url := s.GetURL(path)
	s.logger.Info("PDF stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.PDFData)))

	return &printing.StoreResult{
		Path: path,
		URL:  url,
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get streams a stored PDF
func (s *S3PDFStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	key, err := s.key(path)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, printing.NewRenderError(printing.ErrCodePDFNotFound, "PDF not found", err)
		}
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to fetch PDF", err)
	}
	return out.Body, nil
}

// Delete removes a stored PDF. Missing objects are not an error.
func (s *S3PDFStorage) Delete(ctx context.Context, path string) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to delete PDF", err)
	}

	s.logger.Info("PDF deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan deletes PDFs whose LastModified is before now-age
func (s *S3PDFStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	deleted := 0
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to list PDFs", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".pdf") || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			}); err != nil {
				s.logger.Warn("failed to delete old PDF", zap.String("key", key), zap.Error(err))
				continue
			}
			deleted++
		}
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// GetURL returns the public URL of a stored PDF
func (s *S3PDFStorage) GetURL(path string) string {
	key, err := s.key(path)
	if err != nil {
		return ""
	}
	return s.baseURL + "/" + key
}

// SignedURL returns a presigned GET URL valid for the configured expiration
func (s *S3PDFStorage) SignedURL(ctx context.Context, path string) (string, time.Time, error) {
	key, err := s.key(path)
	if err != nil {
		return "", time.Time{}, err
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentType:        aws.String("application/pdf"),
		ResponseContentDisposition: aws.String("inline"),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return req.URL, s.now().Add(s.presignExpiration), nil
}

// GetBucket returns the bucket name
func (s *S3PDFStorage) GetBucket() string {
	return s.bucket
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	// Some S3-compatible services return this differently
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}
