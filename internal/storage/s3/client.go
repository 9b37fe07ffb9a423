package s3

import (
	"asset-service/internal/config"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken                     = ""
	errFailedCreateAWSSessionFmt             = "failed to create AWS session: %w"
	errFailedGeneratePresignedUploadURLFmt   = "failed to generate presigned upload URL: %w"
	errFailedGeneratePresignedDownloadURLFmt = "failed to generate presigned download URL: %w"
)

// Client exchanges stored object keys for time-limited presigned URLs.
// The URLs are generated on every request and never persisted.
type Client struct {
	svc                *s3.S3
	bucket             string
	presignedURLExpiry time.Duration
}

func NewClient(cfg *config.AWSConfig, presignedURLExpiry time.Duration) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{
		svc:                s3.New(sess),
		bucket:             cfg.Bucket,
		presignedURLExpiry: presignedURLExpiry,
	}, nil
}

func (c *Client) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string) (string, error) {
	req, _ := c.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	})
	req.SetContext(ctx)

	url, err := req.Presign(c.presignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf(errFailedGeneratePresignedUploadURLFmt, err)
	}

	return url, nil
}

func (c *Client) GeneratePresignedDownloadURL(ctx context.Context, objectKey string) (string, error) {
	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	req.SetContext(ctx)

	url, err := req.Presign(c.presignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf(errFailedGeneratePresignedDownloadURLFmt, err)
	}

	return url, nil
}
