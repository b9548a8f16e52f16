// Package storage downloads resumes from S3-compatible object storage (AWS S3,
// Cloudflare R2, MinIO).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const defaultRegion = "auto"

type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
}

type getObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client implements document.ObjectStore on top of the S3 API.
type Client struct {
	api    getObjectAPI
	logger *zap.Logger
}

// New builds a client. Static credentials are used when both keys are set,
// otherwise the default AWS credential chain applies. A custom endpoint
// switches to path-style addressing.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	accessKey, secretKey := strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey)
	switch {
	case accessKey != "" && secretKey != "":
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	case accessKey != "" || secretKey != "":
		return nil, errors.New("storage access key and secret key must be set together")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	api := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Debug("object storage configured", zap.String("endpoint", endpoint), zap.String("region", region))
	return &Client{api: api, logger: logger}, nil
}

// GetObject downloads bucket/key into memory.
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	c.logger.Debug("object downloaded",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", buf.Len()),
	)
	return buf.Bytes(), nil
}
