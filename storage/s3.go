package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// S3Archive keeps a copy of every raw capture in object storage. Postgres
// holds the working copy; the archive is for re-running the pipeline against
// historical payloads after a cleaner change.
type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive builds the archive client. Endpoint overrides support
// S3-compatible stores (DO Spaces, R2).
func NewS3Archive(ctx context.Context, cfg *config.ArchiveConfig) (*S3Archive, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Archive{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// ArchiveScrape stores one capture under raw/<fingerprint>/<id>.
func (a *S3Archive) ArchiveScrape(ctx context.Context, scrape *models.RawScrape) error {
	var body []byte
	contentType := "application/json"
	ext := "json"

	if scrape.Kind == models.ScrapeKindHTML {
		body = []byte(scrape.HTML)
		contentType = "text/html"
		ext = "html"
	} else {
		body = scrape.Payload
	}

	key := fmt.Sprintf("raw/%s/%s.%s", scrape.Fingerprint, scrape.ID, ext)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("archive scrape %s: %w", scrape.ID, err)
	}
	return nil
}
