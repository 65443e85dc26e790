// Package archive stores generated correspondence documents in
// S3-compatible object storage so downloads keep working after the
// compose session is gone. Archiving is optional: the engine works fully
// in memory without it.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	// ErrInvalidConfig indicates missing required configuration.
	ErrInvalidConfig = errors.New("invalid archive config")

	// ErrUploadFailed indicates the object could not be stored.
	ErrUploadFailed = errors.New("failed to archive document")

	// ErrPresignFailed indicates the download URL could not be created.
	ErrPresignFailed = errors.New("failed to presign download URL")
)

// Config holds S3-compatible storage configuration. Endpoint is optional
// and enables MinIO or DigitalOcean Spaces style deployments.
type Config struct {
	Region    string `env:"ARCHIVE_REGION" envDefault:"me-central-1"`
	Bucket    string `env:"ARCHIVE_BUCKET"`
	AccessKey string `env:"ARCHIVE_ACCESS_KEY"`
	SecretKey string `env:"ARCHIVE_SECRET_KEY"`
	Endpoint  string `env:"ARCHIVE_ENDPOINT"`
	PathStyle bool   `env:"ARCHIVE_PATH_STYLE" envDefault:"false"`
}

// Store archives documents in one bucket.
type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       Config
}

// New creates a Store from config.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: bucket and credentials are required", ErrInvalidConfig)
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	client := s3.New(s3.Options{}, opts...)
	return &Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
	}, nil
}

// Put stores a document payload under the given key.
func (s *Store) Put(ctx context.Context, key, contentType string, payload []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return errors.Join(ErrUploadFailed, err)
	}
	return nil
}

// DownloadURL returns a presigned GET URL valid for the given duration.
func (s *Store) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", errors.Join(ErrPresignFailed, err)
	}
	return req.URL, nil
}

// Key builds the archive object key for a client's document.
func Key(clientShort, filename string) string {
	if clientShort == "" {
		return "correspondence/" + filename
	}
	return "correspondence/" + clientShort + "/" + filename
}
