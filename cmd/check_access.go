package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"dogmirror/pkg/utils"
)

var checkAccessCmd = &cobra.Command{
	Use:   "check-access",
	Short: "Verify the storage credential",
	Long: `Probe the storage backend with the configured credential and report
whether it is accepted. Nothing is created or uploaded.`,
	Example: `  # Check the disk token from the environment
  dogmirror check-access

  # Check the S3 credentials
  dogmirror check-access --backend s3`,
	Run: func(cmd *cobra.Command, args []string) {
		runCheckAccess(cmd)
	},
}

type accessReport struct {
	Backend   string `json:"backend"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	CheckedAt string `json:"checked_at"`
}

func runCheckAccess(cmd *cobra.Command) {
	store, err := newStorageClient(cmd)
	if err != nil {
		utils.PrintError(err, "check-access")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), getRequestTimeout(cmd))
	defer cancel()

	report := accessReport{
		Backend:   store.Name(),
		Valid:     true,
		CheckedAt: utils.FormatTime(time.Now()),
	}
	if err := store.CheckAccess(ctx); err != nil {
		report.Valid = false
		report.Error = err.Error()
	}

	if err := utils.PrintJSON(report); err != nil {
		utils.PrintError(err, "check-access")
		return
	}
}

func init() {
	checkAccessCmd.Flags().String("backend", "", "Storage backend to check: disk or s3 (default from config)")
	checkAccessCmd.Flags().Int("timeout", 0, "Timeout in seconds for the probe (default: 30)")
}
