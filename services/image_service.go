package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gogo-api/config"
	"gogo-api/logger"
)

// ImageService stores uploaded images in a MinIO bucket and resolves
// public URLs for them. Deletions are best-effort.
type ImageService struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewImageService(cfg *config.Config) (*ImageService, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &ImageService{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *ImageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Upload stores one image under folder and returns its public URL.
func (s *ImageService) Upload(ctx context.Context, reader io.Reader, size int64, contentType, folder, filename string) (string, error) {
	ext := path.Ext(filename)
	objectName := path.Join(folder, uuid.New().String()+ext)

	logger.Debug("Uploading image", "object", objectName, "size", size)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := s.publicURL + "/" + objectName
	logger.Info("Image uploaded", "object", objectName, "url", url)
	return url, nil
}

// Delete removes the object behind an image URL. Unknown URLs and
// missing objects are logged, never returned as errors.
func (s *ImageService) Delete(ctx context.Context, imageURL string) {
	objectName := s.objectNameFromURL(imageURL)
	if objectName == "" {
		logger.Warn("Could not extract object name from image URL", "url", imageURL)
		return
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		logger.Error("Error deleting image", "error", err, "object", objectName)
		return
	}
	logger.Info("Image deleted", "object", objectName)
}

// DeleteObject removes one object by its name inside the bucket.
func (s *ImageService) DeleteObject(ctx context.Context, objectName string) {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		logger.Error("Error deleting image", "error", err, "object", objectName)
		return
	}
	logger.Info("Image deleted", "object", objectName)
}

// DeleteMany removes a batch of image URLs.
func (s *ImageService) DeleteMany(ctx context.Context, imageURLs []string) {
	for _, url := range imageURLs {
		s.Delete(ctx, url)
	}
}

// DeleteFolder removes every object under the given prefix. Used when
// a location is deleted to drop all of its images at once.
func (s *ImageService) DeleteFolder(ctx context.Context, prefix string) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			logger.Error("Error listing folder objects", "error", object.Err, "prefix", prefix)
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			logger.Error("Error deleting folder object", "error", err, "object", object.Key)
		}
	}
	logger.Info("Image folder deleted", "prefix", prefix)
}

func (s *ImageService) objectNameFromURL(imageURL string) string {
	base := s.publicURL + "/"
	if !strings.HasPrefix(imageURL, base) {
		return ""
	}
	return strings.TrimPrefix(imageURL, base)
}
