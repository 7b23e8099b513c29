package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UploadStatusSuccess = "success"
	UploadStatusFailed  = "failed"
)

// UploadInfo is the storage backend's metadata for one accepted upload.
type UploadInfo struct {
	DiskPath  string `json:"disk_path"`
	SourceURL string `json:"source_url"`
	Status    string `json:"status"`
	Method    string `json:"method,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// UploadResult records the outcome of one image task. It is created once
// after the upload attempt and never modified.
type UploadResult struct {
	Breed         string      `json:"breed"`
	SubBreed      string      `json:"sub_breed,omitempty"`
	BreedFullName string      `json:"breed_full_name"`
	SourceURL     string      `json:"source_url"`
	Filename      string      `json:"filename"`
	DiskPath      string      `json:"disk_path"`
	UploadStatus  string      `json:"upload_status"`
	UploadInfo    *UploadInfo `json:"upload_info,omitempty"`
	Timestamp     string      `json:"timestamp"`
}

type RunMetadata struct {
	RunID             string `json:"run_id"`
	CreatedAt         string `json:"created_at"`
	TotalImages       int    `json:"total_images"`
	SuccessfulUploads int    `json:"successful_uploads"`
	FailedUploads     int    `json:"failed_uploads"`
}

// RunRecord is the persisted shape of a full run: summary metadata plus the
// ordered result sequence.
type RunRecord struct {
	Metadata RunMetadata    `json:"metadata"`
	Results  []UploadResult `json:"results"`
}

// NewRunRecord derives the summary counts from the result sequence at
// persist time.
func NewRunRecord(results []UploadResult) RunRecord {
	successful := 0
	for _, r := range results {
		if r.UploadStatus == UploadStatusSuccess {
			successful++
		}
	}

	return RunRecord{
		Metadata: RunMetadata{
			RunID:             uuid.NewString(),
			CreatedAt:         time.Now().Format(time.RFC3339),
			TotalImages:       len(results),
			SuccessfulUploads: successful,
			FailedUploads:     len(results) - successful,
		},
		Results: results,
	}
}
