package filesystem

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store writes and reads objects in a single bucket.
type S3Store struct {
	client        objectAPI
	bucket        string
	publicBaseURL string
}

func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewS3Store binds a client to bucket. publicBaseURL may be empty, in
// which case URLs point at the server's /uploads route.
func NewS3Store(client *s3.Client, bucket, publicBaseURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *S3Store) Bucket() string {
	return s.bucket
}

func (s *S3Store) URL(key string) string {
	if s.publicBaseURL == "" {
		return "/uploads/" + key
	}
	return s.publicBaseURL + "/" + key
}

func (s *S3Store) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

// PutImage stores a profile image and returns the URL it is served from.
func (s *S3Store) PutImage(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if err := s.PutObject(ctx, key, contentType, body); err != nil {
		return "", err
	}
	return s.URL(key), nil
}

// ReadFile copies the object to outStream and returns its content type.
func (s *S3Store) ReadFile(ctx context.Context, key string, outStream io.Writer) (string, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object %s from bucket %s: %w", key, s.bucket, err)
	}
	defer resp.Body.Close()

	// Write the S3 object data to the provided stream
	if _, err = io.Copy(outStream, resp.Body); err != nil {
		return "", fmt.Errorf("failed to copy object %s from bucket %s: %w", key, s.bucket, err)
	}

	return aws.ToString(resp.ContentType), nil
}
