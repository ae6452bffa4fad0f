package stage

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/shopwright/storefront-etl/internal/logging"
)

// UploaderConfig holds the object-storage settings for staging.
type UploaderConfig struct {
	Bucket string
	Region string
	Prefix string

	// Endpoint optionally points at an S3-compatible API.
	Endpoint string
}

// Uploader puts staged artifacts into the bucket the warehouse copies from.
type Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewUploader builds an S3 client from the ambient AWS credential chain
// and verifies the staging bucket is reachable.
func NewUploader(ctx context.Context, cfg UploaderConfig) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("failed to access staging bucket %s: %w", cfg.Bucket, err)
	}

	return &Uploader{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}, nil
}

// Key returns the deterministic object key for a table's artifact.
func (u *Uploader) Key(table string) string {
	return path.Join(u.prefix, table+".psv")
}

// Upload puts a local artifact at the table's staging key and returns the
// s3:// URI the warehouse COPY statement reads from.
func (u *Uploader) Upload(ctx context.Context, table, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact %s: %w", localPath, err)
	}
	defer f.Close()

	key := u.Key(table)
	if _, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return "", fmt.Errorf("failed to upload artifact for %s: %w", table, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", u.bucket, key)
	logging.Debug().
		Str("table", table).
		Str("uri", uri).
		Msg("Staged artifact uploaded")
	return uri, nil
}
