package thumbs

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store caches thumbnails in an S3 bucket, for deployments where
// multiple instances share one cache.
type S3Store struct {
	client   *s3.Client
	bucket   string
	prefix   string
	maxBytes int64
}

// NewS3Store creates an S3-backed store.
//
// Example:
//
//	client := s3.New(s3.Options{Region: cfg.Thumbs.S3Region})
//	store := thumbs.NewS3Store(client, cfg.Thumbs.S3Bucket, cfg.Thumbs.S3Prefix, cfg.Thumbs.MaxBytes)
func NewS3Store(client *s3.Client, bucket, prefix string, maxBytes int64) *S3Store {
	return &S3Store{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		maxBytes: maxBytes,
	}
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	var buf bytes.Buffer
	if s.maxBytes > 0 {
		n, err := io.Copy(&buf, io.LimitReader(r, s.maxBytes+1))
		if err != nil {
			return err
		}
		if n > s.maxBytes {
			return ErrTooLarge
		}
	} else {
		if _, err := io.Copy(&buf, r); err != nil {
			return err
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"cached-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	return err
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, key string) (*Thumb, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return nil, ErrNotFound
	}

	contentType := "application/octet-stream"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	size := int64(0)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return &Thumb{
		Key:         key,
		ContentType: contentType,
		Size:        size,
		Reader:      out.Body,
	}, nil
}

// Delete implements Store.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	return err
}

// Cleanup implements Store.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var toDelete []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoff) && obj.Key != nil {
				toDelete = append(toDelete, *obj.Key)
			}
		}
	}

	for _, key := range toDelete {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return err
		}
	}
	return nil
}
