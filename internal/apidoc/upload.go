package apidoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/swaggest/openapi-go/openapi3"
)

// S3Config locates the bucket the published document is written to.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	Secure    bool
}

// Publisher writes the OpenAPI document to S3 compatible object storage.
type Publisher struct {
	client *minio.Client
	bucket string
	key    string
}

func NewPublisher(cfg S3Config) (*Publisher, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = "openapi.json"
	}

	return &Publisher{client: client, bucket: cfg.Bucket, key: key}, nil
}

// Publish uploads spec, creating the bucket first when it does not exist.
func (p *Publisher) Publish(ctx context.Context, spec *openapi3.Spec) error {
	b, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}

	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", p.bucket, err)
		}
	}

	_, err = p.client.PutObject(ctx, p.bucket, p.key, bytes.NewReader(b), int64(len(b)), minio.PutObjectOptions{
		ContentType: jsonContentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", p.bucket, p.key, err)
	}

	return nil
}
