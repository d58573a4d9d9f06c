package probe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/platinummonkey/ragstack/pkg/config"
)

type bucketLister interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// MinioProbe lists buckets on the object store
type MinioProbe struct {
	client   bucketLister
	endpoint string
}

// NewMinioProbe configures an S3 client for cfg.Endpoint() with the MinIO
// username and password as static credentials and path-style addressing.
func NewMinioProbe(ctx context.Context, cfg config.MinioSettings, region string) (*MinioProbe, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Username,
			cfg.Password,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MinioProbe{client: client, endpoint: endpoint}, nil
}

// Name returns "minio"
func (p *MinioProbe) Name() string { return config.SectionMinio }

// Check lists buckets with the configured credentials
func (p *MinioProbe) Check(ctx context.Context) error {
	return traced(ctx, p.Name(), func(ctx context.Context) error {
		if _, err := p.client.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
			return fmt.Errorf("list buckets on %s failed: %w", p.endpoint, err)
		}
		return nil
	})
}

// Close is a no-op
func (p *MinioProbe) Close() error { return nil }
