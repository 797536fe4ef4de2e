package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonathan/career-assistant/internal/config"
)

// ErrNotFound is returned by Get for a missing archive.
var ErrNotFound = errors.New("backup not found")

// Target stores backup archives by key.
type Target interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns archive keys, oldest first.
	List(ctx context.Context) ([]string, error)
	// Location describes where key lives, for logs and CLI output.
	Location(key string) string
}

// DirTarget keeps archives in a local directory.
type DirTarget struct {
	Dir string
}

func (t DirTarget) Put(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	return os.WriteFile(filepath.Join(t.Dir, key), data, 0o644)
}

func (t DirTarget) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(t.Dir, filepath.Base(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

func (t DirTarget) List(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(t.Dir, ArchivePrefix+"*.zip"))
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = filepath.Base(m)
	}
	sort.Strings(keys)
	return keys, nil
}

func (t DirTarget) Location(key string) string {
	return filepath.Join(t.Dir, key)
}

// ObjectAPI is the subset of *s3.Client the S3 target uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Target keeps archives in an S3-compatible bucket under Prefix.
type S3Target struct {
	Client ObjectAPI
	Bucket string
	Prefix string
}

// NewS3Target builds a client from cfg. Static credentials are used when given, otherwise
// the default AWS credential chain applies. A custom Endpoint selects R2, MinIO and similar.
func NewS3Target(ctx context.Context, cfg config.BackupConfig) (*S3Target, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("backup bucket is empty")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Target{Client: client, Bucket: cfg.Bucket, Prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

func (t *S3Target) objectKey(key string) string {
	if t.Prefix == "" {
		return key
	}
	return path.Join(t.Prefix, key)
}

func (t *S3Target) Put(ctx context.Context, key string, data []byte) error {
	_, err := t.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.Bucket),
		Key:         aws.String(t.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (t *S3Target) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := t.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(t.Bucket),
		Key:    aws.String(t.objectKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

func (t *S3Target) List(ctx context.Context) ([]string, error) {
	prefix := t.objectKey(ArchivePrefix)
	var (
		keys  []string
		token *string
	)
	for {
		out, err := t.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(t.Bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range out.Contents {
			keys = append(keys, path.Base(aws.ToString(obj.Key)))
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	sort.Strings(keys)
	return keys, nil
}

func (t *S3Target) Location(key string) string {
	return "s3://" + t.Bucket + "/" + t.objectKey(key)
}
