package models

import "testing"

func TestNewRunRecord(t *testing.T) {
	results := []UploadResult{
		{BreedFullName: "pug", UploadStatus: UploadStatusSuccess},
		{BreedFullName: "husky_agouti", UploadStatus: UploadStatusFailed},
		{BreedFullName: "boxer", UploadStatus: UploadStatusSuccess},
	}

	record := NewRunRecord(results)

	if record.Metadata.TotalImages != 3 {
		t.Errorf("TotalImages = %d, want %d", record.Metadata.TotalImages, 3)
	}
	if record.Metadata.SuccessfulUploads != 2 {
		t.Errorf("SuccessfulUploads = %d, want %d", record.Metadata.SuccessfulUploads, 2)
	}
	if record.Metadata.FailedUploads != 1 {
		t.Errorf("FailedUploads = %d, want %d", record.Metadata.FailedUploads, 1)
	}

	sum := record.Metadata.SuccessfulUploads + record.Metadata.FailedUploads
	if sum != record.Metadata.TotalImages || record.Metadata.TotalImages != len(record.Results) {
		t.Errorf("counts are inconsistent: %d + %d != %d (results: %d)",
			record.Metadata.SuccessfulUploads, record.Metadata.FailedUploads,
			record.Metadata.TotalImages, len(record.Results))
	}

	if record.Metadata.RunID == "" {
		t.Error("RunID is empty")
	}
	if record.Metadata.CreatedAt == "" {
		t.Error("CreatedAt is empty")
	}
}

func TestNewRunRecordEmpty(t *testing.T) {
	record := NewRunRecord(nil)
	if record.Metadata.TotalImages != 0 {
		t.Errorf("TotalImages = %d, want %d", record.Metadata.TotalImages, 0)
	}
	if record.Metadata.SuccessfulUploads != 0 || record.Metadata.FailedUploads != 0 {
		t.Errorf("counts = %d/%d, want 0/0",
			record.Metadata.SuccessfulUploads, record.Metadata.FailedUploads)
	}
}
