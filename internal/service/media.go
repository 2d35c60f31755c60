package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"pulsefeed/internal/config"
	"pulsefeed/internal/model"
)

// ObjectStorage is the slice of the object store the media service needs.
// Delete must be idempotent: removing an absent object is not an error.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// r2Storage implements ObjectStorage against Cloudflare R2 through the
// S3-compatible API.
type r2Storage struct {
	client *s3.Client
	bucket string
}

// NewR2Storage constructs an S3-compatible client for Cloudflare R2.
func NewR2Storage(ctx context.Context, cfg *config.Config) (ObjectStorage, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &r2Storage{client: client, bucket: cfg.R2BucketName}, nil
}

func (s *r2Storage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}

// Delete removes an object by key. S3 DeleteObject succeeds for absent keys,
// which gives us the idempotent delete the cleanup path relies on.
func (s *r2Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from r2: %w", err)
	}
	return nil
}

// MediaService validates and stores the single image attached to a post.
type MediaService struct {
	storage   ObjectStorage
	publicURL string
}

// NewMediaService wires the media service onto an object store.
func NewMediaService(storage ObjectStorage, publicURL string) *MediaService {
	return &MediaService{
		storage:   storage,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// UploadPostImage enforces the upload constraints and stores the image under
// a collision-resistant key. Both the file extension and the declared content
// type must match the allowed set; the bytes themselves are not inspected.
func (m *MediaService) UploadPostImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, contentType, err := readAndValidateImage(file, header)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := buildImageKey(ext)

	if err := m.storage.Put(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	return &model.UploadResult{
		URL: fmt.Sprintf("%s/%s", m.publicURL, key),
		Key: key,
	}, nil
}

// RemovePostImage deletes a stored image. Best-effort callers treat any error
// as log-only; a missing object already succeeds at the storage layer.
func (m *MediaService) RemovePostImage(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return m.storage.Delete(ctx, key)
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file multipart.File, header *multipart.FileHeader) ([]byte, string, error) {
	if header.Size > model.MaxImageSizeBytes {
		return nil, "", model.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		return nil, "", model.ErrMissingFilename
	}
	if !model.IsAllowedImageExt(ext) {
		return nil, "", model.ErrInvalidMedia
	}

	contentType := header.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, "", model.ErrInvalidMedia
	}

	limitedReader := io.LimitReader(file, model.MaxImageSizeBytes+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > model.MaxImageSizeBytes {
		return nil, "", model.ErrFileTooLarge
	}

	return data, contentType, nil
}

// buildImageKey assembles field tag + coarse timestamp + random suffix +
// original extension, e.g. posts/image-1756700000-<uuid>.png. Fresh names per
// write mean concurrent uploads never collide.
func buildImageKey(ext string) string {
	return fmt.Sprintf("%s/%s-%d-%s%s",
		model.PostImageFolder, model.PostImageField, time.Now().Unix(), uuid.NewString(), ext)
}
