package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"zoo-server/services/media-api/internal/config"
	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/metrics"
)

const (
	BackendS3 = "s3"

	immutableCacheControl = "public, max-age=31536000, immutable"
)

// s3API is the subset of the S3 client the adapter calls.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3Storage stores optimized images in an S3-compatible bucket.
type S3Storage struct {
	bucket     string
	region     string
	publicBase string
	client     s3API
	keys       keyGenerator
	log        zerolog.Logger

	mu            sync.Mutex
	bucketEnsured bool
}

// NewS3Storage builds the bucket adapter. Missing bucket or credentials give a
// *domain.ConfigurationError so the caller can fall back to Unconfigured.
func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	var missing []string
	if cfg.S3Bucket == "" {
		missing = append(missing, "MEDIA_S3_BUCKET")
	}
	if cfg.S3AccessKeyID == "" {
		missing = append(missing, "MEDIA_S3_ACCESS_KEY_ID")
	}
	if cfg.S3SecretKey == "" {
		missing = append(missing, "MEDIA_S3_SECRET_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return nil, &domain.ConfigurationError{
			Backend: BackendS3,
			Detail:  "missing " + strings.Join(missing, ", "),
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return newS3Storage(client, cfg.S3Bucket, cfg.S3Region, publicBaseURL(cfg), log), nil
}

func newS3Storage(client s3API, bucket, region, publicBase string, log zerolog.Logger) *S3Storage {
	return &S3Storage{
		bucket:     bucket,
		region:     region,
		publicBase: publicBase,
		client:     client,
		keys:       newKeyGenerator(),
		log:        log.With().Str("component", "s3-storage").Str("bucket", bucket).Logger(),
	}
}

// publicBaseURL is the prefix objects are reachable under, bucket included.
func publicBaseURL(cfg *config.Config) string {
	endpoint := cfg.S3PublicEndpoint
	if endpoint == "" {
		endpoint = cfg.S3Endpoint
	}
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	return strings.TrimSuffix(endpoint, "/") + "/" + cfg.S3Bucket
}

func (s *S3Storage) Backend() string {
	return BackendS3
}

func (s *S3Storage) IsConfigured() bool {
	return s.client != nil && s.bucket != ""
}

// Upload writes obj under a fresh key in the kind's folder. A thumbnail, when
// present, goes next to it; its failure is logged and does not fail the upload.
func (s *S3Storage) Upload(ctx context.Context, obj *domain.BlobObject) (*domain.StoredBlobReference, error) {
	if !s.IsConfigured() {
		return nil, &domain.ConfigurationError{Backend: BackendS3, Detail: "s3 client not initialised"}
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	key := s.keys.ObjectKey(obj.Kind, obj.Extension)
	if err := s.put(ctx, key, obj.Data, obj.ContentType, obj.OriginalFilename); err != nil {
		return nil, err
	}

	ref := &domain.StoredBlobReference{
		Kind:     obj.Kind,
		Backend:  BackendS3,
		Key:      key,
		Filename: path.Base(key),
		URL:      s.URL(key),
		Size:     int64(len(obj.Data)),
	}

	if len(obj.Thumbnail) > 0 {
		thumbKey := ThumbnailKey(key)
		if err := s.put(ctx, thumbKey, obj.Thumbnail, "image/webp", obj.OriginalFilename); err != nil {
			s.log.Warn().Err(err).Str("key", thumbKey).Msg("thumbnail upload failed")
		} else {
			ref.ThumbnailURL = s.URL(thumbKey)
		}
	}

	s.log.Debug().Str("key", key).Int64("bytes", ref.Size).Msg("object uploaded")
	return ref, nil
}

func (s *S3Storage) put(ctx context.Context, key string, data []byte, contentType, originalName string) error {
	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(immutableCacheControl),
		Metadata: map[string]string{
			"originalname": url.PathEscape(originalName),
			"uploadedat":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	metrics.RecordStorageOperation(BackendS3, "put", statusLabel(err), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// ensureBucket creates the bucket if needed. Success is cached for the life
// of the adapter; failures are retried on the next upload.
func (s *S3Storage) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketEnsured {
		return nil
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		s.bucketEnsured = true
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil && !isBucketOwned(err) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.log.Info().Msg("bucket ready")
	s.bucketEnsured = true
	return nil
}

// Delete removes the object behind urlOrKey and its thumbnail. It never
// returns an error; the outcome is in the result.
func (s *S3Storage) Delete(ctx context.Context, urlOrKey string) domain.CleanupResult {
	result := s.deleteObject(ctx, urlOrKey)
	metrics.RecordCleanup(BackendS3, string(result.Status))
	if result.Status == domain.CleanupDeleted && !isThumbnailKey(result.Key) {
		s.deleteThumbnail(ctx, ThumbnailKey(result.Key))
	}
	return result
}

func (s *S3Storage) deleteObject(ctx context.Context, urlOrKey string) domain.CleanupResult {
	key := ParseObjectKey(urlOrKey, s.bucket)
	if key == "" {
		return domain.NotFound("")
	}
	if !s.IsConfigured() {
		return domain.Failed(key, domain.ErrNotConfigured)
	}

	start := time.Now()
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return domain.NotFound(key)
		}
		metrics.RecordStorageOperation(BackendS3, "head", "error", time.Since(start).Seconds())
		return domain.Failed(key, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.RecordStorageOperation(BackendS3, "delete", statusLabel(err), time.Since(start).Seconds())
	if err != nil {
		return domain.Failed(key, err)
	}
	return domain.Deleted(key)
}

func (s *S3Storage) deleteThumbnail(ctx context.Context, key string) {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		s.log.Debug().Err(err).Str("key", key).Msg("thumbnail cleanup failed")
	}
}

// URL returns the public URL for key.
func (s *S3Storage) URL(key string) string {
	return strings.TrimSuffix(s.publicBase, "/") + "/" + key
}

// Health checks that the bucket is reachable.
func (s *S3Storage) Health(ctx context.Context) error {
	if !s.IsConfigured() {
		return domain.ErrNotConfigured
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}

func isBucketOwned(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return true
	}
	var exists *types.BucketAlreadyExists
	return errors.As(err, &exists)
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
