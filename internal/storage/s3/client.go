// Package s3 implements the storage backend on top of an S3-compatible
// object store. S3 has no server-side remote-fetch, so uploads always go
// through the download-then-put path.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "dogmirror/config"
	"dogmirror/internal/models"
)

type Client struct {
	s3Client   *s3.Client
	uploader   *manager.Uploader
	httpClient *http.Client
	config     *appConfig.Config
}

func New(cfg *appConfig.Config) (*Client, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.S3.AccessKey,
				SecretAccessKey: cfg.S3.SecretKey,
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.S3.ApiURL != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return &Client{
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		config:     cfg,
	}, nil
}

func (c *Client) Name() string {
	return "s3"
}

// CheckAccess verifies the credentials can reach the configured bucket.
func (c *Client) CheckAccess(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.S3.BucketName),
	})
	if err != nil {
		return fmt.Errorf("failed to access bucket %q: %w", c.config.S3.BucketName, err)
	}
	return nil
}

// EnsureFolder writes a zero-byte directory marker. S3 keys are flat, but
// the marker keeps the hierarchy browsable in consoles; rewriting an
// existing marker is harmless, which keeps the call idempotent.
func (c *Client) EnsureFolder(ctx context.Context, path string) error {
	key := strings.TrimSuffix(path, "/") + "/"

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.config.S3.BucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to create folder %q: %w", path, err)
	}
	return nil
}

// UploadFromURL downloads the source content and puts it to destPath.
func (c *Client) UploadFromURL(ctx context.Context, sourceURL, destPath string) (*models.UploadInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request for %q: %w", sourceURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download of %q returned status %d", sourceURL, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", sourceURL, err)
	}

	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.S3.BucketName),
		Key:         aws.String(destPath),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(detectContentType(destPath)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %q to S3: %w", destPath, err)
	}

	return &models.UploadInfo{
		DiskPath:  destPath,
		SourceURL: sourceURL,
		Status:    "uploaded",
		Method:    "s3",
		Size:      int64(len(content)),
	}, nil
}

func detectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	contentTypes := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
		".svg":  "image/svg+xml",
		".json": "application/json",
	}

	if contentType, exists := contentTypes[ext]; exists {
		return contentType
	}

	return "application/octet-stream"
}
