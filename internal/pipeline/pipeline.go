// Package pipeline orchestrates one mirroring run: validate the storage
// credential, fetch the breed catalog, provision folders, upload one random
// image per breed/sub-breed, and persist per-file outcomes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"dogmirror/internal/dogapi"
	"dogmirror/internal/models"
	"dogmirror/internal/storage"
	"dogmirror/pkg/utils"
)

type Stage string

const (
	StageIdle               Stage = "idle"
	StageValidating         Stage = "validating"
	StageFetchingBreeds     Stage = "fetching_breeds"
	StageCreatingBaseFolder Stage = "creating_base_folder"
	StageFetchingImageURLs  Stage = "fetching_image_urls"
	StageUploading          Stage = "uploading"
	StageFinished           Stage = "finished"
)

// Event is a one-way progress notification from the pipeline worker to the
// presentation layer. It carries no control authority back.
type Event struct {
	Stage   Stage  `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Summary describes a finished run.
type Summary struct {
	Backend           string `json:"backend"`
	BaseFolder        string `json:"base_folder"`
	TotalBreeds       int    `json:"total_breeds"`
	TotalImages       int    `json:"total_images"`
	SuccessfulUploads int    `json:"successful_uploads"`
	FailedUploads     int    `json:"failed_uploads"`
	Cancelled         bool   `json:"cancelled"`
	Duration          string `json:"duration"`
	ResultsFile       string `json:"results_file,omitempty"`
}

// Catalog is the breed catalog surface the pipeline consumes.
type Catalog interface {
	ListBreeds(ctx context.Context) (models.BreedMap, error)
	CollectImages(ctx context.Context, breeds models.BreedMap, progress dogapi.ProgressFunc) []models.ImageTask
}

// ResultWriter persists a finished run's record.
type ResultWriter interface {
	Save(record models.RunRecord, path string) error
}

type Pipeline struct {
	catalog     Catalog
	store       storage.Client
	results     ResultWriter
	baseFolder  string
	resultsFile string

	events    chan Event
	cancelled atomic.Bool
}

func New(catalog Catalog, store storage.Client, results ResultWriter, baseFolder, resultsFile string) *Pipeline {
	return &Pipeline{
		catalog:     catalog,
		store:       store,
		results:     results,
		baseFolder:  baseFolder,
		resultsFile: resultsFile,
		events:      make(chan Event, 128),
	}
}

// Events returns the progress channel. It is closed when Run returns.
func (p *Pipeline) Events() <-chan Event {
	return p.events
}

// Cancel requests a cooperative stop. The flag is re-read at the top of
// every per-breed and per-image iteration; in-flight HTTP calls are not
// aborted.
func (p *Pipeline) Cancel() {
	p.cancelled.Store(true)
}

// emit never blocks the worker: a slow consumer drops progress events
// instead of stalling the run.
func (p *Pipeline) emit(stage Stage, current, total int, message string) {
	select {
	case p.events <- Event{Stage: stage, Current: current, Total: total, Message: message}:
	default:
	}
}

// Run executes the whole pipeline sequentially. Fatal conditions (invalid
// credential, failed or empty breed list, base folder failure, zero tasks)
// abort with an error; per-breed and per-image failures are recorded and
// skipped.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	defer close(p.events)
	startTime := time.Now()

	p.emit(StageValidating, 0, 0, "Validating storage credential")
	if err := p.store.CheckAccess(ctx); err != nil {
		return nil, fmt.Errorf("storage credential rejected: %w", err)
	}

	p.emit(StageFetchingBreeds, 0, 0, "Fetching breed list")
	breeds, err := p.catalog.ListBreeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breed list: %w", err)
	}
	if len(breeds) == 0 {
		return nil, fmt.Errorf("breed list is empty")
	}

	if p.cancelled.Load() {
		return p.finish(startTime, nil, 0, 0, len(breeds), true)
	}

	p.emit(StageCreatingBaseFolder, 0, 0, fmt.Sprintf("Creating folder %s", p.baseFolder))
	if err := p.store.EnsureFolder(ctx, p.baseFolder); err != nil {
		return nil, fmt.Errorf("failed to create base folder %q: %w", p.baseFolder, err)
	}

	if p.cancelled.Load() {
		return p.finish(startTime, nil, 0, 0, len(breeds), true)
	}

	p.emit(StageFetchingImageURLs, 0, breeds.TaskCount(), "Fetching image URLs")
	collectCtx, cancelCollect := context.WithCancel(ctx)
	defer cancelCollect()
	tasks := p.catalog.CollectImages(collectCtx, breeds, func(current, total int, status string) {
		if p.cancelled.Load() {
			cancelCollect()
			return
		}
		p.emit(StageFetchingImageURLs, current, total, status)
	})

	if p.cancelled.Load() {
		return p.finish(startTime, nil, 0, 0, len(breeds), true)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("no images collected")
	}

	results, successful, failed := p.upload(ctx, tasks)

	if len(results) > 0 {
		record := models.NewRunRecord(results)
		if err := p.results.Save(record, p.resultsFile); err != nil {
			slog.Error("Failed to persist run results", "file", p.resultsFile, "error", err)
		}
	}

	return p.finish(startTime, results, successful, failed, len(breeds), p.cancelled.Load())
}

// upload walks the tasks grouped per breed, provisioning a sub-folder per
// breed and recording one UploadResult per attempted task.
func (p *Pipeline) upload(ctx context.Context, tasks []models.ImageTask) ([]models.UploadResult, int, int) {
	breedOrder, byBreed := groupByBreed(tasks)

	results := make([]models.UploadResult, 0, len(tasks))
	successful := 0
	failed := 0
	total := len(tasks)
	current := 0

	for _, breed := range breedOrder {
		if p.cancelled.Load() {
			break
		}

		breedFolder := utils.JoinFolder(p.baseFolder, breed)
		if err := p.store.EnsureFolder(ctx, breedFolder); err != nil {
			slog.Error("Skipping breed, folder creation failed", "breed", breed, "error", err)
			continue
		}

		for _, task := range byBreed[breed] {
			if p.cancelled.Load() {
				break
			}

			current++
			filename := utils.ImageFilename(task.FullName, task.ImageURL)
			destPath := utils.JoinFolder(breedFolder, filename)

			p.emit(StageUploading, current, total, fmt.Sprintf("Uploading %s", task.FullName))

			info, err := p.store.UploadFromURL(ctx, task.ImageURL, destPath)
			status := models.UploadStatusSuccess
			if err != nil {
				slog.Warn("Upload failed", "path", destPath, "error", err)
				status = models.UploadStatusFailed
				info = nil
			}

			results = append(results, models.UploadResult{
				Breed:         task.Breed,
				SubBreed:      task.SubBreed,
				BreedFullName: task.FullName,
				SourceURL:     task.ImageURL,
				Filename:      filename,
				DiskPath:      destPath,
				UploadStatus:  status,
				UploadInfo:    info,
				Timestamp:     time.Now().Format(time.RFC3339),
			})

			if status == models.UploadStatusSuccess {
				successful++
			} else {
				failed++
			}
		}
	}

	return results, successful, failed
}

func (p *Pipeline) finish(startTime time.Time, results []models.UploadResult, successful, failed, totalBreeds int, cancelled bool) (*Summary, error) {
	summary := &Summary{
		Backend:           p.store.Name(),
		BaseFolder:        p.baseFolder,
		TotalBreeds:       totalBreeds,
		TotalImages:       len(results),
		SuccessfulUploads: successful,
		FailedUploads:     failed,
		Cancelled:         cancelled,
		Duration:          time.Since(startTime).String(),
	}
	if len(results) > 0 {
		summary.ResultsFile = p.resultsFile
	}

	message := fmt.Sprintf("Finished: %d uploaded, %d failed", successful, failed)
	if cancelled {
		message = "Stopped by user"
	}
	p.emit(StageFinished, len(results), len(results), message)

	slog.Info("Pipeline finished",
		"uploaded", successful, "failed", failed, "cancelled", cancelled)
	return summary, nil
}

// groupByBreed keeps task order inside a breed and first-seen order across
// breeds, so a cancelled run truncates cleanly.
func groupByBreed(tasks []models.ImageTask) ([]string, map[string][]models.ImageTask) {
	order := make([]string, 0)
	byBreed := make(map[string][]models.ImageTask)
	for _, task := range tasks {
		if _, seen := byBreed[task.Breed]; !seen {
			order = append(order, task.Breed)
		}
		byBreed[task.Breed] = append(byBreed[task.Breed], task)
	}
	return order, byBreed
}
