package downloader

import (
	"context"
	"os"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/util/files"
	"language-learner/internal/config"
)

// objectGetter is the subset of *minio.Client the fetcher calls.
type objectGetter interface {
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
}

// S3Fetcher downloads lessons from an S3 compatible bucket.
type S3Fetcher struct {
	newClient func(cfg config.S3Config) (objectGetter, error)
	logger    *zap.Logger
}

// NewS3Fetcher returns a fetcher backed by minio-go.
func NewS3Fetcher(logger *zap.Logger) *S3Fetcher {
	return &S3Fetcher{newClient: newMinioClient, logger: logger}
}

func newMinioClient(cfg config.S3Config) (objectGetter, error) {
	opts := &minio.Options{
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	access, secret := config.ResolveSecret(cfg.AccessKey), config.ResolveSecret(cfg.SecretKey)
	if access != "" || secret != "" {
		opts.Creds = credentials.NewStaticV4(access, secret, "")
	} else {
		opts.Creds = credentials.NewEnvAWS()
	}
	return minio.New(cfg.Endpoint, opts)
}

// ObjectKey is the key of lesson inside the bucket.
func ObjectKey(cfg config.S3Config, lesson config.Lesson) string {
	name := lesson.Filename
	if lesson.Path != "" {
		name = lesson.Path
	}
	return path.Join(cfg.Prefix, name)
}

// Fetch downloads the object into dest.
func (f *S3Fetcher) Fetch(ctx context.Context, src config.Source, lesson config.Lesson, dest string) error {
	if src.S3 == nil {
		return apperrors.RequiredField("s3")
	}
	client, err := f.newClient(*src.S3)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindProvider, "s3: new client")
	}

	key := ObjectKey(*src.S3, lesson)
	tmp := files.TempPath(dest)
	f.logger.Debug("fetching object", zap.String("bucket", src.S3.Bucket), zap.String("key", key))

	if err := client.FGetObject(ctx, src.S3.Bucket, key, tmp, minio.GetObjectOptions{}); err != nil {
		_ = os.Remove(tmp)
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return apperrors.Wrapf(apperrors.ErrSourceNotFound, apperrors.KindProvider, "s3://%s/%s", src.S3.Bucket, key)
		}
		return apperrors.Wrapf(err, apperrors.KindProvider, "s3: get s3://%s/%s", src.S3.Bucket, key)
	}
	return files.CommitTemp(tmp, dest)
}
