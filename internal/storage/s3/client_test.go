package s3

import (
	"context"
	"os"
	"testing"
	"time"

	"dogmirror/config"
)

// Integration tests for the S3 backend
// These tests require a real S3 connection and are skipped by default
// To run these tests, set the environment variable S3_INTEGRATION_TEST=true

func integrationConfig() *config.Config {
	return &config.Config{
		RequestTimeout: 30 * time.Second,
		S3: config.S3Config{
			BucketName: os.Getenv("TEST_BUCKET_NAME"),
			Region:     os.Getenv("TEST_REGION"),
			ApiURL:     os.Getenv("TEST_API_URL"),
			AccessKey:  os.Getenv("TEST_ACCESS_KEY"),
			SecretKey:  os.Getenv("TEST_SECRET_KEY"),
		},
	}
}

func TestCheckAccess(t *testing.T) {
	if os.Getenv("S3_INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test; set S3_INTEGRATION_TEST=true to run")
	}

	client, err := New(integrationConfig())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if err := client.CheckAccess(context.Background()); err != nil {
		t.Errorf("CheckAccess() error = %v", err)
	}
}

func TestEnsureFolderIntegration(t *testing.T) {
	if os.Getenv("S3_INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test; set S3_INTEGRATION_TEST=true to run")
	}

	client, err := New(integrationConfig())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	// idempotence: both calls succeed
	if err := client.EnsureFolder(context.Background(), "dogmirror-test"); err != nil {
		t.Fatalf("first EnsureFolder() error = %v", err)
	}
	if err := client.EnsureFolder(context.Background(), "dogmirror-test"); err != nil {
		t.Fatalf("second EnsureFolder() error = %v", err)
	}
}

func TestName(t *testing.T) {
	c := &Client{}
	if c.Name() != "s3" {
		t.Errorf("Name() = %s, want %s", c.Name(), "s3")
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"JPEG", "pug_n02110958_1.jpg", "image/jpeg"},
		{"JPEG alternate extension", "photo.jpeg", "image/jpeg"},
		{"PNG", "logo.png", "image/png"},
		{"Uppercase extension", "PHOTO.JPG", "image/jpeg"},
		{"Unknown extension", "file.bin", "application/octet-stream"},
		{"No extension", "file", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detectContentType(tt.filename)
			if result != tt.expected {
				t.Errorf("detectContentType(%s) = %s, want %s", tt.filename, result, tt.expected)
			}
		})
	}
}
