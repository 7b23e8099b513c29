// Package disk implements the storage backend against a Disk-style REST
// API: bearer-token auth, PUT /resources for folders, and a two-phase
// upload that prefers the server-side remote-fetch endpoint.
package disk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"dogmirror/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string {
	return "disk"
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CheckAccess probes the API root; only a 200 means the token is valid.
func (c *Client) CheckAccess(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build token check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token rejected with status %d", resp.StatusCode)
	}

	slog.Info("Disk token is valid")
	return nil
}

// EnsureFolder creates a remote folder. 201 means created, 409 means it
// already exists; both are success.
func (c *Client) EnsureFolder(ctx context.Context, path string) error {
	reqURL := c.baseURL + "/resources?path=" + url.QueryEscape(path)

	req, err := c.newRequest(ctx, http.MethodPut, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build folder request for %q: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create folder %q: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		slog.Info("Folder created", "path", path)
		return nil
	case http.StatusConflict:
		slog.Debug("Folder already exists", "path", path)
		return nil
	default:
		return fmt.Errorf("folder creation for %q returned status %d", path, resp.StatusCode)
	}
}

// UploadFromURL first asks the backend to pull sourceURL itself; when the
// backend rejects that, it falls back to downloading the content and putting
// it to a pre-signed upload URL. The fallback always runs on remote-fetch
// failure.
func (c *Client) UploadFromURL(ctx context.Context, sourceURL, destPath string) (*models.UploadInfo, error) {
	info, err := c.remoteFetch(ctx, sourceURL, destPath)
	if err == nil {
		return info, nil
	}
	slog.Warn("Remote fetch rejected, falling back to direct upload", "path", destPath, "error", err)

	href, err := c.uploadHref(ctx, destPath)
	if err != nil {
		return nil, err
	}

	slog.Info("Downloading source file", "url", sourceURL)
	content, err := c.download(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	slog.Info("Uploading file", "path", destPath, "size", len(content))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, href, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request for %q: %w", destPath, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %q: %w", destPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("upload of %q returned status %d", destPath, resp.StatusCode)
	}

	return &models.UploadInfo{
		DiskPath:  destPath,
		SourceURL: sourceURL,
		Status:    "uploaded",
		Size:      int64(len(content)),
	}, nil
}

// remoteFetch asks the backend to download sourceURL directly into destPath.
// 201 and 202 both count as accepted; the transfer may still be in progress
// server-side.
func (c *Client) remoteFetch(ctx context.Context, sourceURL, destPath string) (*models.UploadInfo, error) {
	reqURL := c.baseURL + "/resources/upload?path=" + url.QueryEscape(destPath) +
		"&url=" + url.QueryEscape(sourceURL)

	req, err := c.newRequest(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build remote fetch request for %q: %w", destPath, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote fetch for %q failed: %w", destPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("remote fetch for %q returned status %d", destPath, resp.StatusCode)
	}

	slog.Info("File uploaded via remote fetch", "path", destPath)
	return &models.UploadInfo{
		DiskPath:  destPath,
		SourceURL: sourceURL,
		Status:    "uploaded_remote",
		Method:    "remote_upload",
	}, nil
}

// uploadHref requests a pre-signed upload URL for destPath, forcing
// overwrite of any existing object.
func (c *Client) uploadHref(ctx context.Context, destPath string) (string, error) {
	reqURL := c.baseURL + "/resources/upload?path=" + url.QueryEscape(destPath) + "&overwrite=true"

	req, err := c.newRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build upload URL request for %q: %w", destPath, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get upload URL for %q: %w", destPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload URL request for %q returned status %d", destPath, resp.StatusCode)
	}

	var data struct {
		Href string `json:"href"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode upload URL response for %q: %w", destPath, err)
	}
	if data.Href == "" {
		return "", fmt.Errorf("upload URL response for %q contains no href", destPath)
	}

	return data.Href, nil
}

func (c *Client) download(ctx context.Context, sourceURL string) ([]byte, error) {
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
	return content, nil
}
