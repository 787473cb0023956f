package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo-server/services/media-api/internal/config"
	domain "zoo-server/services/media-api/internal/domain/media"
)

type fakeS3 struct {
	putFunc          func(ctx context.Context, params *s3.PutObjectInput) error
	headObjectFunc   func(ctx context.Context, params *s3.HeadObjectInput) error
	deleteObjectFunc func(ctx context.Context, params *s3.DeleteObjectInput) error
	headBucketFunc   func(ctx context.Context, params *s3.HeadBucketInput) error
	createBucketFunc func(ctx context.Context, params *s3.CreateBucketInput) error

	puts          []*s3.PutObjectInput
	bodies        [][]byte
	deletes       []string
	headBuckets   int
	createBuckets int
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	f.puts = append(f.puts, params)
	f.bodies = append(f.bodies, body)
	if f.putFunc != nil {
		return nil, f.putFunc(ctx, params)
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headObjectFunc != nil {
		if err := f.headObjectFunc(ctx, params); err != nil {
			return nil, err
		}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *params.Key)
	if f.deleteObjectFunc != nil {
		if err := f.deleteObjectFunc(ctx, params); err != nil {
			return nil, err
		}
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.headBuckets++
	if f.headBucketFunc != nil {
		if err := f.headBucketFunc(ctx, params); err != nil {
			return nil, err
		}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createBuckets++
	if f.createBucketFunc != nil {
		if err := f.createBucketFunc(ctx, params); err != nil {
			return nil, err
		}
	}
	return &s3.CreateBucketOutput{}, nil
}

func newTestS3(client *fakeS3) *S3Storage {
	s := newS3Storage(client, "zoo-images", "us-west-2", "https://storage.zoo.test/zoo-images", zerolog.Nop())
	s.keys = fixedKeys(111, 222)
	return s
}

func webpObject(kind domain.EntityKind) *domain.BlobObject {
	return &domain.BlobObject{
		Kind:             kind,
		Data:             []byte("RIFF....WEBP"),
		ContentType:      "image/webp",
		Extension:        ".webp",
		OriginalFilename: "red panda.jpg",
	}
}

func TestS3Upload(t *testing.T) {
	client := &fakeS3{}
	s := newTestS3(client)

	ref, err := s.Upload(context.Background(), webpObject(domain.EntityExhibit))
	require.NoError(t, err)

	assert.Equal(t, "exhibits/exhibits-111-222.webp", ref.Key)
	assert.Equal(t, "exhibits-111-222.webp", ref.Filename)
	assert.Equal(t, "https://storage.zoo.test/zoo-images/exhibits/exhibits-111-222.webp", ref.URL)
	assert.Equal(t, BackendS3, ref.Backend)
	assert.Empty(t, ref.ThumbnailURL)

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "zoo-images", *put.Bucket)
	assert.Equal(t, "image/webp", *put.ContentType)
	assert.Equal(t, "public, max-age=31536000, immutable", *put.CacheControl)
	assert.Nil(t, put.ContentEncoding)
	assert.Equal(t, "red%20panda.jpg", put.Metadata["originalname"])
	assert.NotEmpty(t, put.Metadata["uploadedat"])
	assert.Equal(t, []byte("RIFF....WEBP"), client.bodies[0])
}

func TestS3Upload_Thumbnail(t *testing.T) {
	client := &fakeS3{}
	s := newTestS3(client)
	obj := webpObject(domain.EntityAnimal)
	obj.Thumbnail = []byte("thumb")

	ref, err := s.Upload(context.Background(), obj)
	require.NoError(t, err)

	require.Len(t, client.puts, 2)
	assert.Equal(t, "animals/animals-111-222-thumb.webp", *client.puts[1].Key)
	assert.Equal(t, "https://storage.zoo.test/zoo-images/animals/animals-111-222-thumb.webp", ref.ThumbnailURL)
}

func TestS3Upload_ThumbnailFailureIsNotFatal(t *testing.T) {
	client := &fakeS3{
		putFunc: func(ctx context.Context, params *s3.PutObjectInput) error {
			if isThumbnailKey(*params.Key) {
				return errors.New("slow down")
			}
			return nil
		},
	}
	s := newTestS3(client)
	obj := webpObject(domain.EntityAnimal)
	obj.Thumbnail = []byte("thumb")

	ref, err := s.Upload(context.Background(), obj)
	require.NoError(t, err)
	assert.Empty(t, ref.ThumbnailURL)
}

func TestS3Upload_PutFailure(t *testing.T) {
	client := &fakeS3{
		putFunc: func(ctx context.Context, params *s3.PutObjectInput) error {
			return errors.New("connection reset by peer")
		},
	}
	s := newTestS3(client)

	_, err := s.Upload(context.Background(), webpObject(domain.EntityAnimal))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotConfigured)
}

func TestS3EnsureBucket(t *testing.T) {
	t.Run("creates missing bucket once", func(t *testing.T) {
		client := &fakeS3{
			headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput) error {
				return &types.NotFound{}
			},
		}
		s := newTestS3(client)

		for i := 0; i < 3; i++ {
			_, err := s.Upload(context.Background(), webpObject(domain.EntityAnimal))
			require.NoError(t, err)
		}
		assert.Equal(t, 1, client.headBuckets)
		assert.Equal(t, 1, client.createBuckets)
	})

	t.Run("tolerates concurrent create", func(t *testing.T) {
		client := &fakeS3{
			headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput) error {
				return &types.NotFound{}
			},
			createBucketFunc: func(ctx context.Context, params *s3.CreateBucketInput) error {
				return &types.BucketAlreadyOwnedByYou{}
			},
		}
		s := newTestS3(client)

		_, err := s.Upload(context.Background(), webpObject(domain.EntityAnimal))
		assert.NoError(t, err)
	})

	t.Run("head failure is retried on next upload", func(t *testing.T) {
		calls := 0
		client := &fakeS3{
			headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput) error {
				calls++
				if calls == 1 {
					return errors.New("timeout")
				}
				return nil
			},
		}
		s := newTestS3(client)

		_, err := s.Upload(context.Background(), webpObject(domain.EntityAnimal))
		require.Error(t, err)
		_, err = s.Upload(context.Background(), webpObject(domain.EntityAnimal))
		require.NoError(t, err)
		assert.Empty(t, client.createBuckets)
	})
}

func TestS3Delete(t *testing.T) {
	client := &fakeS3{}
	s := newTestS3(client)

	result := s.Delete(context.Background(), "https://storage.zoo.test/zoo-images/exhibits/exhibits-111-222.webp")

	assert.Equal(t, domain.CleanupDeleted, result.Status)
	assert.Equal(t, "exhibits/exhibits-111-222.webp", result.Key)
	assert.Equal(t, []string{"exhibits/exhibits-111-222.webp", "exhibits/exhibits-111-222-thumb.webp"}, client.deletes)
}

func TestS3Delete_Tolerance(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		client     *fakeS3
		wantStatus domain.CleanupStatus
	}{
		{
			name:   "missing object",
			target: "animals/animals-1-2.webp",
			client: &fakeS3{headObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput) error {
				return &types.NotFound{}
			}},
			wantStatus: domain.CleanupNotFound,
		},
		{
			name:   "network error on head",
			target: "animals/animals-1-2.webp",
			client: &fakeS3{headObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput) error {
				return errors.New("dial tcp: connection refused")
			}},
			wantStatus: domain.CleanupFailed,
		},
		{
			name:   "network error on delete",
			target: "https://storage.zoo.test/zoo-images/animals/animals-1-2.webp",
			client: &fakeS3{deleteObjectFunc: func(ctx context.Context, params *s3.DeleteObjectInput) error {
				return errors.New("dial tcp: connection refused")
			}},
			wantStatus: domain.CleanupFailed,
		},
		{
			name:       "empty target",
			target:     "",
			client:     &fakeS3{},
			wantStatus: domain.CleanupNotFound,
		},
		{
			name:       "malformed url",
			target:     "http://[::1",
			client:     &fakeS3{},
			wantStatus: domain.CleanupNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestS3(tt.client)

			var result domain.CleanupResult
			assert.NotPanics(t, func() {
				result = s.Delete(context.Background(), tt.target)
			})
			assert.Equal(t, tt.wantStatus, result.Status)
		})
	}
}

func TestNewS3Storage_MissingSettings(t *testing.T) {
	_, err := NewS3Storage(context.Background(), &config.Config{S3Bucket: "zoo-images"}, zerolog.Nop())

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, BackendS3, cfgErr.Backend)
	assert.Contains(t, cfgErr.Detail, "MEDIA_S3_ACCESS_KEY_ID")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "public endpoint wins",
			cfg:  config.Config{S3Bucket: "zoo", S3Endpoint: "http://minio:9000", S3PublicEndpoint: "https://cdn.zoo.test/"},
			want: "https://cdn.zoo.test/zoo",
		},
		{
			name: "endpoint",
			cfg:  config.Config{S3Bucket: "zoo", S3Endpoint: "http://minio:9000"},
			want: "http://minio:9000/zoo",
		},
		{
			name: "aws default",
			cfg:  config.Config{S3Bucket: "zoo", S3Region: "eu-west-1"},
			want: "https://zoo.s3.eu-west-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(&tt.cfg))
		})
	}
}
