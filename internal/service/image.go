package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
)

// S3ImageStore stores recipe images in an S3 compatible bucket
type S3ImageStore struct {
	s3Config *config.S3Config
	log      *zap.Logger
}

var _ ImageStore = (*S3ImageStore)(nil)

// NewS3ImageStore creates a new S3ImageStore
func NewS3ImageStore(s3Config *config.S3Config, log *zap.Logger) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config, log: log.Named("images")}
}

// Upload writes data under key and returns its public URL
func (s *S3ImageStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.s3Config.ObjectURL(key)
	s.log.Info("uploaded image", zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ImageKey returns the object key of an image uploaded by userID at t
func ImageKey(userID, filename string, t time.Time) string {
	name := unsafeFilename.ReplaceAllString(path.Base(strings.ReplaceAll(filename, "\\", "/")), "_")
	if name == "" || name == "." || name == "_" {
		name = "image"
	}
	return fmt.Sprintf("recipes/%s/%d_%s", userID, t.UnixMilli(), name)
}
