// Package r2 uploads audio artifacts to Cloudflare R2 through the
// S3-compatible API.
package r2

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"audioextractor/internal/config"
	"audioextractor/internal/core/domain"
)

// s3API is the slice of the S3 client the uploader needs; tests substitute
// a fake.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores byte payloads in an R2 bucket with a single atomic put.
type Uploader struct {
	client        s3API
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// New builds an R2 uploader from the storage configuration. Missing
// credentials fail here, at startup, rather than per request.
func New(ctx context.Context, cfg config.R2Config, logger *zap.Logger) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" ||
		cfg.Bucket == "" || cfg.PublicBaseURL == "" {
		return nil, domain.NewError(domain.KindConfig, "incomplete R2 storage configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, domain.WrapError(domain.KindConfig, "failed to build R2 client config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	})

	return &Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload puts data under key and returns its public URL. Overwriting an
// existing key silently replaces the prior object.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", domain.WrapError(domain.KindUpload, "failed to upload object "+key, err)
	}

	u.logger.Info("uploaded object",
		zap.String("key", key),
		zap.Int("bytes", len(data)))

	return u.publicBaseURL + "/" + key, nil
}
