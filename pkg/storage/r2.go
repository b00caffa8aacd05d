package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// R2Storage wraps an S3-compatible bucket (Cloudflare R2) holding two
// kinds of objects: publicly served product/category images under
// images/, and private payment proofs under proofs/ which are only ever
// exposed through short-lived presigned URLs.
type R2Storage struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	bucketName    string
	publicURL     string
	uploadTimeout time.Duration
}

func NewR2Storage(ctx context.Context, accountID, accessKey, secretKey, bucketName, publicURL string, uploadTimeout time.Duration) (*R2Storage, error) {
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &R2Storage{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucketName:    bucketName,
		publicURL:     strings.TrimSuffix(publicURL, "/"),
		uploadTimeout: uploadTimeout,
	}, nil
}

// UploadImage uploads processed image bytes under images/ and returns
// the public URL for embedding in product/category records.
func (s *R2Storage) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := extensionFor(contentType)
	key := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)

	if err := s.put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

// UploadProof uploads a payment proof under proofs/ and returns the
// object key. Proofs stay private; the key is what gets stored on the
// order and later presigned for viewing.
func (s *R2Storage) UploadProof(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := extensionFor(contentType)
	key := fmt.Sprintf("proofs/%s%s", uuid.New().String(), ext)

	if err := s.put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("failed to upload proof: %w", err)
	}

	return key, nil
}

// PresignURL issues a time-limited GET URL for a private object key.
func (s *R2Storage) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// DeleteFile deletes a public object by its full URL.
func (s *R2Storage) DeleteFile(ctx context.Context, fileURL string) error {
	if !strings.HasPrefix(fileURL, s.publicURL) {
		return fmt.Errorf("invalid file URL: domain mismatch")
	}
	key := strings.TrimPrefix(strings.TrimPrefix(fileURL, s.publicURL), "/")
	if key == "" {
		return fmt.Errorf("invalid file key derived from URL")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *R2Storage) put(ctx context.Context, key string, data []byte, contentType string) error {
	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/webp":
		return ".webp"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "application/pdf":
		return ".pdf"
	}
	return ".bin"
}
