package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrStorageNotConfigured is returned when no bucket is configured
var ErrStorageNotConfigured = errors.New("object storage is not configured")

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client        *s3.Client
	BucketName    string
	Region        string
	PublicBaseURL string
}

// NewS3Config initializes the S3 client. A custom endpoint (MinIO and
// similar) switches the client to path-style addressing.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if cfg.S3Bucket == "" {
		return nil, ErrStorageNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.S3PublicBaseURL
	if base == "" && cfg.S3Endpoint != "" {
		base = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}

	return &S3Config{
		Client:        client,
		BucketName:    cfg.S3Bucket,
		Region:        cfg.S3Region,
		PublicBaseURL: base,
	}, nil
}

// ObjectURL returns the public URL of an object key
func (s *S3Config) ObjectURL(key string) string {
	if s.PublicBaseURL != "" {
		return strings.TrimRight(s.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.BucketName, s.Region, key)
}

// SetupBucketPolicy applies a bucket policy allowing public reads of uploaded recipe images
func (s *S3Config) SetupBucketPolicy(ctx context.Context) error {
	policy := `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Sid": "PublicReadRecipeImages",
				"Effect": "Allow",
				"Principal": "*",
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::` + s.BucketName + `/recipes/*"
			}
		]
	}`
	_, err := s.Client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.BucketName),
		Policy: aws.String(policy),
	})
	return err
}
