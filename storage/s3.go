package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	apperrors "github.com/cliphunter/cliphunter/errors"
)

type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
	// CDNBaseURL overrides the endpoint-derived public URL when set.
	CDNBaseURL string
}

type S3Client struct {
	client *s3.Client
	config S3Config
}

func NewS3Client(cfg S3Config) (*S3Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{URL: cfg.Endpoint}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load SDK config")
	}

	return &S3Client{
		client: s3.NewFromConfig(awsCfg),
		config: cfg,
	}, nil
}

func (s *S3Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	const op = "S3Client.Upload"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", apperrors.Internal(op, err, "Failed to upload clip")
	}

	return s.publicURL(key), nil
}

func (s *S3Client) publicURL(key string) string {
	if s.config.CDNBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CDNBaseURL, "/"), key)
	}
	endpoint := strings.TrimRight(s.config.Endpoint, "/")
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key)
	}
	return fmt.Sprintf("%s/%s/%s", endpoint, s.config.Bucket, key)
}
