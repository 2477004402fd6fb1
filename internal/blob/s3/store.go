package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the settings for an S3-backed blob store.
type Config struct {
	Bucket string
	Region string
	// Prefix is prepended to every object key, e.g. "uploads".
	Prefix string
	// BaseURL overrides the public URL root, for CDN fronting.
	// Defaults to the bucket's virtual-hosted S3 URL.
	BaseURL string
	// AccessKeyID and SecretAccessKey select static credentials.
	// Leave empty to use the default AWS credential chain.
	AccessKeyID     string
	SecretAccessKey string
}

// Store writes uploaded images to an S3 bucket and serves them back
// through public URLs.
type Store struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	baseURL  string
}

// NewStore connects to S3 using the default credential chain, or static
// credentials when the config provides them.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store requires a bucket")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 store requires a region")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, cfg.Region)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Store{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		baseURL:  baseURL,
	}, nil
}

// Put writes an object and makes it publicly readable
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.uploader.Upload(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL an uploaded key is served from
func (s *Store) PublicURL(key string) string {
	return s.baseURL + s.objectKey(key)
}

// URLPrefix returns the root all public URLs share. Refs that already
// start with this prefix are previously uploaded and need no re-upload.
func (s *Store) URLPrefix() string {
	return s.baseURL
}

func (s *Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}
