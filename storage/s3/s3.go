// Package s3 stores objects in Amazon S3 or an S3-compatible service.
//
// Objects are staged in a temporary file while they are written and uploaded
// with a single PutObject when closed.
package s3

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kbukum/iocapture/logger"
	"github.com/kbukum/iocapture/resilience"
	"github.com/kbukum/iocapture/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(context.Background(), cfg, log)
	})
}

// API is the subset of the S3 client the storage uses.
type API interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
}

// Storage implements storage.Storage on an S3 bucket under a key prefix.
type Storage struct {
	client API
	bucket string
	prefix string
	retry  resilience.Policy
	log    *logger.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithRetry sets the retry policy for uploads.
func WithRetry(p resilience.Policy) Option {
	return func(s *Storage) { s.retry = p }
}

// NewStorage creates an S3 storage client from the given config.
func NewStorage(ctx context.Context, cfg storage.Config, log *logger.Logger) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	retry := resilience.DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	return NewWithClient(awss3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, cfg.Prefix, log, WithRetry(retry)), nil
}

// NewWithClient creates a storage over an existing client.
func NewWithClient(client API, bucket, prefix string, log *logger.Logger, opts ...Option) *Storage {
	if log == nil {
		log = logger.Nop()
	}
	s := &Storage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		retry:  resilience.DefaultPolicy(),
		log:    log.WithComponent("storage.s3"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the s3:// URL of the prefix.
func (s *Storage) Location() string {
	if s.prefix == "" {
		return fmt.Sprintf("s3://%s", s.bucket)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}

func (s *Storage) key(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if s.prefix == "" {
		return p
	}
	return s.prefix + "/" + p
}

// Create stages writes in a temporary file. The object appears in the bucket
// when the writer is closed.
func (s *Storage) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	tmp, err := os.CreateTemp("", "iocapture-*")
	if err != nil {
		return nil, fmt.Errorf("storage: stage object: %w", err)
	}
	return &objectWriter{ctx: ctx, s: s, key: s.key(p), tmp: tmp}, nil
}

// Open returns a reader for the object at p.
func (s *Storage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: s3 download: %w", err)
	}
	return out.Body, nil
}

// Exists checks whether an object exists.
func (s *Storage) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		var notFound *types.NotFound
		if stderrors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("storage: s3 head: %w", err)
	}
	return true, nil
}

// List returns metadata for all objects whose path starts with prefix.
// Paths are relative to the storage prefix.
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	full := s.prefix
	if full != "" {
		full += "/"
	}
	full += prefix

	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(full),
	}

	var files []storage.FileInfo
	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("storage: s3 list: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if s.prefix != "" {
				key = strings.TrimPrefix(key, s.prefix+"/")
			}
			fi := storage.FileInfo{
				Path: key,
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				fi.LastModified = *obj.LastModified
			}
			files = append(files, fi)
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

type objectWriter struct {
	ctx    context.Context
	s      *Storage
	key    string
	tmp    *os.File
	closed bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

// Close uploads the staged object and removes the temporary file.
func (w *objectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer os.Remove(w.tmp.Name()) //nolint:errcheck // best-effort cleanup of the staging file
	defer w.tmp.Close()           //nolint:errcheck // closed after upload

	retry := w.s.retry
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		w.s.log.Warn("object upload failed, retrying", logger.Fields(
			logger.FieldResource, w.key, "attempt", attempt, "backoff", backoff.String(), logger.FieldError, err.Error()))
	}
	err := resilience.Do(context.WithoutCancel(w.ctx), retry, func(int) error {
		if _, err := w.tmp.Seek(0, io.SeekStart); err != nil {
			return resilience.Permanent(fmt.Errorf("rewind staged object: %w", err))
		}
		_, err := w.s.client.PutObject(context.WithoutCancel(w.ctx), &awss3.PutObjectInput{
			Bucket: aws.String(w.s.bucket),
			Key:    aws.String(w.key),
			Body:   w.tmp,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("storage: s3 upload %s: %w", w.key, err)
	}
	w.s.log.Debug("object uploaded", logger.Fields(logger.FieldResource, w.key))
	return nil
}

// compile-time check
var _ storage.Storage = (*Storage)(nil)
