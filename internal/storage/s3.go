package storage

import (
	"context"
	"io"
	"time"

	"github.com/chaudhryu/police-report-request-backend/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Storage struct {
	client *s3.S3
	bucket string
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.Storage.S3.AccessKey, cfg.Storage.S3.SecretKey, ""),
		Endpoint:         aws.String(cfg.Storage.S3.Endpoint),
		Region:           aws.String(cfg.Storage.S3.Region),
		DisableSSL:       aws.Bool(!cfg.Storage.S3.UseSSL),
		S3ForcePathStyle: aws.Bool(true),
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}

	return &S3Storage{
		client: s3.New(sess),
		bucket: cfg.Storage.S3.Bucket,
	}, nil
}

func (s *S3Storage) containerOrDefault(container string) string {
	if container == "" {
		return s.bucket
	}
	return container
}

func (s *S3Storage) Upload(ctx context.Context, container, key, contentType string, data io.Reader) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.containerOrDefault(container)),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        aws.ReadSeekCloser(data),
	})
	return err
}

func (s *S3Storage) Download(ctx context.Context, container, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.containerOrDefault(container)),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

func (s *S3Storage) PresignUpload(container, key, contentType string, lifetime time.Duration) (string, error) {
	req, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.containerOrDefault(container)),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	return req.Presign(lifetime)
}

func (s *S3Storage) PresignRead(container, key string, lifetime time.Duration) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.containerOrDefault(container)),
		Key:    aws.String(key),
	})
	return req.Presign(lifetime)
}

// DefaultContainer is the bucket blobs land in when callers do not name one.
func (s *S3Storage) DefaultContainer() string {
	return s.bucket
}
