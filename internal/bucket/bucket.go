// Package bucket applies the bracket-tag rename to objects stored in an
// S3-compatible bucket, such as Supabase Storage or MinIO.
package bucket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/loganlanou/prjimages/internal/naming"
	"github.com/loganlanou/prjimages/internal/renamer"
)

// ObjectAPI is the part of *s3.Client the renamer uses.
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type ClientConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client. A custom endpoint switches to path-style
// addressing, which S3-compatible stores expect.
func NewS3Client(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type Option func(*Renamer)

// WithPrefix limits the rename to direct children of prefix.
func WithPrefix(prefix string) Option {
	return func(r *Renamer) {
		prefix = strings.TrimPrefix(prefix, "/")
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		r.prefix = prefix
	}
}

func WithOverwrite(overwrite bool) Option {
	return func(r *Renamer) { r.overwrite = overwrite }
}

func WithDryRun(dryRun bool) Option {
	return func(r *Renamer) { r.dryRun = dryRun }
}

// Renamer renames objects in one bucket. S3 has no rename, so each object
// is copied to its new key and the old key is deleted.
type Renamer struct {
	api       ObjectAPI
	bucket    string
	prefix    string
	overwrite bool
	dryRun    bool
}

func New(api ObjectAPI, bucket string, opts ...Option) *Renamer {
	r := &Renamer{api: api, bucket: bucket}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run renames every matching object directly under the prefix. A listing
// failure aborts the run; a failure on one object is recorded and the rest
// are still processed.
func (r *Renamer) Run(ctx context.Context) (*renamer.Summary, error) {
	summary := &renamer.Summary{
		Directory: "s3://" + r.bucket + "/" + r.prefix,
		DryRun:    r.dryRun,
	}

	slog.Info("looking for images", "directory", summary.Directory)

	paginator := s3.NewListObjectsV2Paginator(r.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(r.bucket),
		Prefix:    aws.String(r.prefix),
		Delimiter: aws.String("/"),
	})

	// Collect first so renames never show up in later listing pages.
	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", r.bucket, r.prefix, err)
		}

		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), r.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		target, ok := naming.TransformFilename(name)
		if !ok {
			continue
		}

		summary.Results = append(summary.Results, r.rename(ctx, name, target))
	}

	return summary, nil
}

func (r *Renamer) rename(ctx context.Context, source, target string) renamer.Result {
	result := renamer.Result{Source: source, Target: target}
	sourceKey := r.prefix + source
	targetKey := r.prefix + target

	exists, err := r.exists(ctx, targetKey)
	if err != nil {
		result.Outcome = renamer.OutcomeFailed
		result.Err = err
		slog.Error("error renaming object", "key", sourceKey, "error", err)
		return result
	}

	if exists && !r.overwrite {
		result.Outcome = renamer.OutcomeSkipped
		slog.Warn("skipped object, target already exists", "key", sourceKey, "target", targetKey)
		return result
	}

	if r.dryRun {
		result.Outcome = renamer.OutcomeRenamed
		slog.Info("would rename object", "key", sourceKey, "target", targetKey, "replace", exists)
		return result
	}

	_, err = r.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(r.bucket),
		CopySource: aws.String(copySource(r.bucket, sourceKey)),
		Key:        aws.String(targetKey),
	})
	if err != nil {
		result.Outcome = renamer.OutcomeFailed
		result.Err = fmt.Errorf("copy %s: %w", sourceKey, err)
		slog.Error("error renaming object", "key", sourceKey, "error", result.Err)
		return result
	}

	_, err = r.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(sourceKey),
	})
	if err != nil {
		// The copy exists; the old key is left behind.
		result.Outcome = renamer.OutcomeFailed
		result.Err = fmt.Errorf("delete %s after copy: %w", sourceKey, err)
		slog.Error("error renaming object", "key", sourceKey, "error", result.Err)
		return result
	}

	result.Outcome = renamer.OutcomeRenamed
	slog.Info("renamed object", "key", sourceKey, "target", targetKey)
	return result
}

func (r *Renamer) exists(ctx context.Context, key string) (bool, error) {
	_, err := r.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("head %s: %w", key, err)
}

// copySource returns the URL-encoded "bucket/key" CopyObject expects.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return bucket + "/" + strings.Join(segments, "/")
}
