package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 30 * time.Second

// S3Client implements Client for AWS S3 (or any S3-compatible endpoint).
type S3Client struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	urls    URLBuilder
	backoff Backoff
}

// S3Credentials holds the static key pair used to sign S3 requests.
type S3Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // non-empty for S3-compatible stores (MinIO etc.)
}

// NewS3Client creates an S3 backend client for the given settings.
func NewS3Client(settings Settings, creds S3Credentials, backoff Backoff) (*S3Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if creds.Endpoint != "" {
			return aws.Endpoint{
				URL:               creds.Endpoint,
				HostnameImmutable: true,
				SigningRegion:     settings.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(settings.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			"",
		)),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = creds.Endpoint != ""
	})

	log.Info().
		Str("bucket", settings.BucketName).
		Str("region", settings.Region).
		Bool("has_cdn_url", settings.CDNURL != "").
		Msg("S3 storage client initialized")

	return &S3Client{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  settings.BucketName,
		urls:    NewS3URLBuilder(settings.BucketName, settings.Region, settings.CDNURL),
		backoff: backoff,
	}, nil
}

// Upload stores the file under key with retry and an immutable cache-control
// header. Overwrite on retry is acceptable: the same content is resent.
func (c *S3Client) Upload(ctx context.Context, file File, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	err := c.backoff.Retry(ctx, "s3 upload", func() error {
		_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(c.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(file.Data),
			ContentType:  aws.String(file.ContentType),
			CacheControl: aws.String(CacheControlImmutable),
		})
		return err
	})
	if err != nil {
		return "", err
	}

	log.Info().
		Str("key", key).
		Str("bucket", c.bucket).
		Int("size", len(file.Data)).
		Msg("File uploaded to S3")

	return key, nil
}

// Delete removes an object. An empty key is a no-op so that deleting
// "nothing" never fails a broader workflow. Attempted once, not retried.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		log.Warn().Msg("Attempted to delete object with empty key")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	log.Info().Str("key", key).Msg("File deleted from S3")
	return nil
}

// SignedURL delegates to S3-native presigning. Attempted once.
func (c *S3Client) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign S3 URL: %w", err)
	}

	return req.URL, nil
}

// PublicURL delegates to the paired URL builder.
func (c *S3Client) PublicURL(key string) string {
	return c.urls.PublicURL(key)
}
