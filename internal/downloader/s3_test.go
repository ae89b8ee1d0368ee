package downloader

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/config"
)

type fakeBucket struct {
	objects map[string]string
	gotKey  string
}

func (b *fakeBucket) FGetObject(_ context.Context, bucket, key, filePath string, _ minio.GetObjectOptions) error {
	b.gotKey = bucket + "/" + key
	body, ok := b.objects[key]
	if !ok {
		return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound, Message: "The specified key does not exist."}
	}
	return os.WriteFile(filePath, []byte(body), 0o644)
}

func TestS3Fetcher_Fetch(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]string{"spanish/a1/lesson01.mp4": "s3 video"}}
	f := NewS3Fetcher(zap.NewNop())
	f.newClient = func(config.S3Config) (objectGetter, error) { return bucket, nil }

	src := config.Source{Type: config.SourceS3, S3: &config.S3Config{Endpoint: "minio:9000", Bucket: "courses", Prefix: "spanish/a1"}}
	dest := filepath.Join(t.TempDir(), "lesson01.mp4")

	require.NoError(t, f.Fetch(context.Background(), src, config.Lesson{Filename: "lesson01.mp4"}, dest))
	assert.Equal(t, "courses/spanish/a1/lesson01.mp4", bucket.gotKey)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "s3 video", string(data))

	err = f.Fetch(context.Background(), src, config.Lesson{Filename: "lesson02.mp4"}, filepath.Join(t.TempDir(), "lesson02.mp4"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSourceNotFound))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "lesson01.mp4", ObjectKey(config.S3Config{}, config.Lesson{Filename: "lesson01.mp4"}))
	assert.Equal(t, "p/raw/x.mov", ObjectKey(config.S3Config{Prefix: "p"}, config.Lesson{Filename: "x.mp4", Path: "raw/x.mov"}))
}

func TestNewMinioClient(t *testing.T) {
	client, err := newMinioClient(config.S3Config{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "AK", SecretKey: "SK"})
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = newMinioClient(config.S3Config{Endpoint: "http://bad endpoint"})
	assert.Error(t, err)
}
