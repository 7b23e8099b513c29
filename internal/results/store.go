// Package results persists run outcomes to a JSON record on disk.
package results

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"dogmirror/internal/models"
)

type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Save writes the record to path, overwriting any previous run
// unconditionally.
func (s *Store) Save(record models.RunRecord, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results to %q: %w", path, err)
	}

	slog.Info("Run results saved", "file", path, "results", len(record.Results))
	return nil
}

// Load reads a previously persisted run record.
func (s *Store) Load(path string) (*models.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results from %q: %w", path, err)
	}

	var record models.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse results from %q: %w", path, err)
	}

	return &record, nil
}
