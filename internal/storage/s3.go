package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

// S3 stores run files in a bucket under a key prefix, so an analysis can
// run against a PixPlot output tree that was synced to object storage.
type S3 struct {
	client    *s3.Client
	bucket    string
	prefix    string
	originals string
}

// ParseS3Root splits an s3://bucket/prefix location. The second return
// is false when the location is not an S3 URL.
func ParseS3Root(location string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.Trim(prefix, "/"), bucket != ""
}

// NewS3 returns a store over s3://bucket/prefix using the ambient AWS
// credential chain. originals is the key prefix of the source images;
// when empty it defaults to prefix/originals.
func NewS3(ctx context.Context, bucket, prefix, originals string) (*S3, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if originals == "" {
		originals = path.Join(prefix, "originals")
	}
	return &S3{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		prefix:    prefix,
		originals: strings.Trim(originals, "/"),
	}, nil
}

// Root returns the store location.
func (s *S3) Root() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

func (s *S3) key(p string) string {
	return path.Join(s.prefix, p)
}

// ReadFile downloads an object relative to the store prefix. A missing
// key maps onto fs.ErrNotExist so callers can treat both backends alike.
func (s *S3) ReadFile(ctx context.Context, p string) ([]byte, error) {
	key := s.key(p)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("s3 object %s: %w", key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to download %s from S3: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", key, err)
	}
	return data, nil
}

// WriteFile uploads an object relative to the store prefix.
func (s *S3) WriteFile(ctx context.Context, p string, data []byte) error {
	key := s.key(p)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return nil
}

// CopyImage locates filename under the originals prefix and copies it
// into destDir. The bytes flow through the process rather than through
// a server-side copy, so the fixity checksum covers what was actually
// written.
func (s *S3) CopyImage(ctx context.Context, filename, destDir string) (CopyResult, error) {
	srcKey, err := s.findImage(ctx, filename)
	if err != nil {
		return CopyResult{}, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(srcKey),
	})
	if err != nil {
		return CopyResult{}, fmt.Errorf("failed to download %s from S3: %w", srcKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return CopyResult{}, fmt.Errorf("failed to read S3 object %s: %w", srcKey, err)
	}

	destKey := s.key(path.Join(destDir, filename))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(destKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return CopyResult{}, fmt.Errorf("failed to upload %s to S3: %w", destKey, err)
	}

	result := describeCopy(filename, data)
	log.Debug().Str("src", srcKey).Str("dest", destKey).Int64("size", result.Size).Msg("copied image")
	return result, nil
}

// findImage resolves filename to exactly one key under the originals
// prefix, walking the listing with a paginator.
func (s *S3) findImage(ctx context.Context, filename string) (string, error) {
	var found []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.originals + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list originals: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			if path.Base(*obj.Key) == filename {
				found = append(found, *obj.Key)
			}
		}
	}

	switch {
	case len(found) == 0:
		return "", fmt.Errorf("%s under s3://%s/%s: %w", filename, s.bucket, s.originals, ErrImageNotFound)
	case len(found) > 1:
		return "", fmt.Errorf("%s resolves to %d keys under s3://%s/%s: %w", filename, len(found), s.bucket, s.originals, ErrImageAmbiguous)
	}
	return found[0], nil
}
