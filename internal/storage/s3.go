package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/akore648/videotube/internal/service"
)

// S3Uploader stores request-local temp files in an S3-compatible bucket
// (minio in development) and hands back a public URL. The core never looks
// at the file bytes beyond streaming them up.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type Options struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base under which uploaded keys are reachable.
	PublicURL string
}

func NewS3Uploader(ctx context.Context, opts Options) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey, opts.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimSuffix(opts.PublicURL, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, localPath string) (*service.UploadResult, error) {
	if localPath == "" {
		return nil, fmt.Errorf("upload: empty file path")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("upload: open %s: %w", localPath, err)
	}
	defer f.Close()

	key := storageKey(localPath)
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload: put object: %w", err)
	}

	return &service.UploadResult{URL: u.publicURL + "/" + key}, nil
}

// storageKey partitions objects by date and keeps the original extension.
func storageKey(localPath string) string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), filepath.Ext(localPath))
}
