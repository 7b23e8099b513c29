package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"dogmirror/config"
	"dogmirror/internal/storage"
	"dogmirror/internal/storage/disk"
	"dogmirror/internal/storage/s3"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dogmirror",
	Short: "Mirror random dog images to cloud storage",
	Long: `dogmirror downloads one random image for every breed and sub-breed
from the Dog CEO catalog and uploads them into a mirrored folder hierarchy
on a cloud storage backend, recording per-file outcomes to a JSON log.
Configuration is loaded from .env file or environment variables`,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkAccessCmd)
	rootCmd.AddCommand(breedsCmd)
	rootCmd.AddCommand(resultsCmd)

	rootCmd.PersistentFlags().StringP("folder", "f", "", "Override base folder name from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getBaseFolder(cmd *cobra.Command) string {
	folder, _ := cmd.Flags().GetString("folder")
	if folder != "" {
		return folder
	}
	return cfg.BaseFolder
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func getRequestTimeout(cmd *cobra.Command) time.Duration {
	timeout, _ := cmd.Flags().GetInt("timeout")
	if timeout > 0 {
		return time.Duration(timeout) * time.Second
	}
	return cfg.RequestTimeout
}

// newStorageClient builds the backend selected with --backend or
// STORAGE_BACKEND; the disk backend is the default.
func newStorageClient(cmd *cobra.Command) (storage.Client, error) {
	backend, _ := cmd.Flags().GetString("backend")
	if backend == "" {
		backend = cfg.Backend
	}

	switch backend {
	case "s3":
		return s3.New(cfg)
	default:
		return disk.New(cfg.DiskAPIURL, cfg.DiskToken, getRequestTimeout(cmd)), nil
	}
}
