package export

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/patagonia-pages/bookpage/internal/config"
	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/static"
)

// Cache policies of uploaded objects.
const (
	cacheImmutable  = "public, max-age=31536000, immutable"
	cacheRevalidate = "public, max-age=0, must-revalidate"
)

// ObjectPutter is the part of the S3 client the uploader uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client creates an S3 client from the default AWS configuration
// chain (environment, shared config, instance role). Region and endpoint
// from cfg take precedence.
func NewS3Client(ctx context.Context, cfg config.ExportConfig) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E203").WithDetail("load AWS configuration").Wrap(err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, s3Opts...), nil
}

// Uploader copies an export to a bucket.
type Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// NewUploader creates an uploader writing below prefix in bucket.
func NewUploader(client ObjectPutter, bucket, prefix string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("component", "upload", "bucket", bucket),
	}
}

// Key returns the object key of an exported file.
func (u *Uploader) Key(rel string) string {
	return u.prefix + path.Clean(rel)
}

// Upload puts every file of res. Fingerprinted assets are cached for a
// year; pages and the manifest revalidate.
func (u *Uploader) Upload(ctx context.Context, res *Result) (int, error) {
	n := 0
	for _, f := range res.Files {
		if err := u.put(ctx, res.Output, f); err != nil {
			return n, err
		}
		n++
	}
	u.logger.Info("upload complete", "objects", n, "prefix", u.prefix)
	return n, nil
}

func (u *Uploader) put(ctx context.Context, root string, f File) error {
	file, err := os.Open(filepath.Join(root, filepath.FromSlash(f.Path)))
	if err != nil {
		return errors.New("E203").WithDetailf("open %s", f.Path).Wrap(err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.New("E203").WithDetailf("stat %s", f.Path).Wrap(err)
	}

	cache := cacheRevalidate
	if f.Immutable {
		cache = cacheImmutable
	}
	key := u.Key(f.Path)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(static.ContentType(f.Path)),
		CacheControl:  aws.String(cache),
	})
	if err != nil {
		return errors.New("E203").WithDetailf("put %s", key).Wrap(err)
	}
	u.logger.Debug("object uploaded", "key", key, "size", info.Size())
	return nil
}
