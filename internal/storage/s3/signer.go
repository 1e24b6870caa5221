// Package s3 issues presigned GET URLs for identity images held in S3 or an
// S3-compatible store (MinIO, R2).
package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config selects the region, optional custom endpoint, and optional static keys.
// Without static keys the default AWS credential chain is used.
type Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Signer implements ocr.Signer.
type Signer struct {
	presign *s3.PresignClient
}

// New loads AWS configuration and builds a presign client.
func New(ctx context.Context, cfg Config) (*Signer, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewFromClient(s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})), nil
}

// NewFromClient wraps an existing S3 client.
func NewFromClient(client *s3.Client) *Signer {
	return &Signer{presign: s3.NewPresignClient(client)}
}

// SignedURL returns a GET URL for bucket/path that expires after expiry.
func (s *Signer) SignedURL(ctx context.Context, bucket, path string, expiry time.Duration) (string, error) {
	key := strings.TrimPrefix(path, "/")
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and object path are required")
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}
