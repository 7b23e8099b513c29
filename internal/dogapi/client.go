package dogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dogmirror/internal/models"
)

const statusSuccess = "success"

// ProgressFunc is called after every image fetch attempt, success or not.
type ProgressFunc func(current, total int, status string)

// Client talks to the Dog CEO catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type breedListResponse struct {
	Status  string              `json:"status"`
	Message map[string][]string `json:"message"`
}

type randomImageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ListBreeds fetches the full breed to sub-breed mapping. Any transport
// failure or non-success API status is returned as an error; a failed breed
// list is fatal to the whole run.
func (c *Client) ListBreeds(ctx context.Context) (models.BreedMap, error) {
	url := c.baseURL + "/breeds/list/all"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build breed list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breed list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("breed list request returned status %d", resp.StatusCode)
	}

	var data breedListResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode breed list: %w", err)
	}

	if data.Status != statusSuccess {
		return nil, fmt.Errorf("catalog API returned status %q", data.Status)
	}

	slog.Info("Fetched breed list", "breeds", len(data.Message))
	return models.BreedMap(data.Message), nil
}

// RandomImage fetches a random image URL for a breed or breed/sub-breed
// pair. Errors here are non-fatal: the caller skips the task.
func (c *Client) RandomImage(ctx context.Context, breed, subBreed string) (string, error) {
	url := fmt.Sprintf("%s/breed/%s/images/random", c.baseURL, breed)
	name := breed
	if subBreed != "" {
		url = fmt.Sprintf("%s/breed/%s/%s/images/random", c.baseURL, breed, subBreed)
		name = breed + "/" + subBreed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request for %s: %w", name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image request for %s returned status %d", name, resp.StatusCode)
	}

	var data randomImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode image response for %s: %w", name, err)
	}

	if data.Status != statusSuccess {
		return "", fmt.Errorf("catalog API returned status %q for %s", data.Status, name)
	}

	if data.Message == "" {
		return "", fmt.Errorf("no image found for %s", name)
	}

	return data.Message, nil
}

// CollectImages expands a breed map into image tasks, one per breed/sub-breed
// leaf. The total reported to progress is fixed before any fetch starts.
// Tasks whose image fetch fails are logged and excluded. The loop stops at
// the next iteration boundary once ctx is cancelled.
func (c *Client) CollectImages(ctx context.Context, breeds models.BreedMap, progress ProgressFunc) []models.ImageTask {
	tasks := make([]models.ImageTask, 0, breeds.TaskCount())
	total := breeds.TaskCount()
	current := 0

	for _, breed := range breeds.Breeds() {
		subBreeds := breeds[breed]
		if len(subBreeds) == 0 {
			subBreeds = []string{""}
		}

		for _, subBreed := range subBreeds {
			if ctx.Err() != nil {
				return tasks
			}

			name := breed
			if subBreed != "" {
				name = breed + "/" + subBreed
			}

			imageURL, err := c.RandomImage(ctx, breed, subBreed)
			if err != nil {
				slog.Warn("Skipping breed, image fetch failed", "breed", name, "error", err)
			} else {
				tasks = append(tasks, models.NewImageTask(breed, subBreed, imageURL))
			}

			current++
			if progress != nil {
				progress(current, total, fmt.Sprintf("Fetching image URL for %s", name))
			}
		}
	}

	slog.Info("Collected image tasks", "tasks", len(tasks), "attempted", total)
	return tasks
}
