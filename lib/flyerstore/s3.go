package flyerstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 stores flyers as gzip objects in a bucket, optionally under a key
// prefix.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3(ctx context.Context, bucket, prefix string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &S3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *S3) key(filename string) string {
	if s.prefix == "" {
		return filename
	}
	return s.prefix + "/" + filename
}

func (s *S3) Save(ctx context.Context, filename string, content []byte) error {
	compressed, err := compress(content)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(filename + ".gz")),
		Body:        bytes.NewReader(compressed),
		ContentType: aws.String("application/gzip"),
	})
	return err
}

func (s *S3) Exists(ctx context.Context, prefix string) (bool, error) {
	res, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.key(prefix)),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(res.Contents) > 0, nil
}

func (s *S3) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			entry := Entry{
				Filename: aws.ToString(obj.Key),
				Size:     aws.ToInt64(obj.Size),
				Storage:  "s3",
				Path:     fmt.Sprintf("s3://%s/%s", s.bucket, aws.ToString(obj.Key)),
			}
			if obj.LastModified != nil {
				entry.LastModified = *obj.LastModified
			}
			out = append(out, entry)
		}
	}
	return out, nil
}
