package objstore

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"mediaplane/pkg/config"
	"mediaplane/pkg/errutil"

	"github.com/minio/minio-go/v7"
	"go.uber.org/fx"
)

var Module = fx.Module("objstore", fx.Provide(NewStore))

// Store is the artifact-store boundary. Keys are deterministic per
// artifact, so every operation is idempotent on overwrite.
type Store interface {
	Upload(ctx context.Context, key, localPath, contentType string) error
	Download(ctx context.Context, key, localPath string) error
	Delete(ctx context.Context, key string) error
	PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func NewStore(client *minio.Client, cfg *config.Config) Store {
	return &minioStore{client: client, bucket: cfg.Minio.BucketName}
}

func (s *minioStore) Upload(ctx context.Context, key, localPath, contentType string) error {
	if contentType == "" {
		contentType = ContentTypeFor(key)
	}
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errutil.StorageFailed("upload artifact "+key, errutil.WithErr(err))
	}
	return nil
}

func (s *minioStore) Download(ctx context.Context, key, localPath string) error {
	if err := s.client.FGetObject(ctx, s.bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return errutil.StorageFailed("download object "+key, errutil.WithErr(err))
	}
	return nil
}

func (s *minioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errutil.StorageFailed("delete object "+key, errutil.WithErr(err))
	}
	return nil
}

func (s *minioStore) PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", errutil.StorageFailed("presign object "+key, errutil.WithErr(err))
	}
	return u.String(), nil
}

// ContentTypeFor maps an artifact key to its MIME type by extension.
func ContentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".mp4":
		return "video/mp4"
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	case ".mpd":
		return "application/dash+xml"
	case ".m4s":
		return "video/iso.segment"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
