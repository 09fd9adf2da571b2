package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fieldlog/fieldlog/internal/application/port/output"
)

// S3MirrorGateway implements output.MirrorGateway on AWS S3.
// Bucket structure: s3://<bucket>/<prefix>/operations/<operationID>-<queueID>.json
// Keys embed the queue item ID, so re-pushing the same operation after
// a partial failure creates a new object instead of clobbering one.
type S3MirrorGateway struct {
	client S3API
	bucket string
	prefix string
	now    func() time.Time
}

// S3Config holds mirror gateway configuration
type S3Config struct {
	Bucket string // S3 bucket name
	Prefix string // Optional key prefix
	Region string // AWS region (optional, uses default if empty)
}

// NewS3MirrorGateway creates an S3-backed mirror gateway
func NewS3MirrorGateway(ctx context.Context, cfg S3Config) (*S3MirrorGateway, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	return &S3MirrorGateway{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		now:    time.Now,
	}, nil
}

// NewS3MirrorGatewayWithClient creates a mirror gateway with a custom
// S3 client, primarily for tests
func NewS3MirrorGatewayWithClient(client S3API, bucket, prefix string) *S3MirrorGateway {
	return &S3MirrorGateway{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// PushDocument uploads one operation document to the mirror
func (g *S3MirrorGateway) PushDocument(ctx context.Context, req output.PushDocumentRequest) (*output.PushResult, error) {
	key := g.buildKey(req.OperationID, req.QueueItemID)

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(req.Content),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"operation-id":  req.OperationID,
			"queue-item-id": req.QueueItemID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to S3: %w", err)
	}

	return &output.PushResult{
		RemotePath: fmt.Sprintf("s3://%s/%s", g.bucket, key),
		Size:       int64(len(req.Content)),
		PushedAt:   g.now(),
	}, nil
}

func (g *S3MirrorGateway) buildKey(operationID, queueItemID string) string {
	name := fmt.Sprintf("%s-%s.json", operationID, queueItemID)
	if g.prefix != "" {
		return path.Join(g.prefix, "operations", name)
	}
	return path.Join("operations", name)
}
