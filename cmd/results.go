package cmd

import (
	"github.com/spf13/cobra"

	"dogmirror/internal/models"
	"dogmirror/internal/results"
	"dogmirror/pkg/utils"
)

var resultsCmd = &cobra.Command{
	Use:   "results [file]",
	Short: "Summarize a persisted results log",
	Long: `Read a JSON results log written by a previous run and print its
summary. With --failed, only the failed uploads are listed instead of the
full result sequence.

If no file is given, the configured results file is used.`,
	Example: `  # Summary of the default results log
  dogmirror results

  # Summary of a specific log
  dogmirror results run1.json

  # Only the failed uploads
  dogmirror results --failed`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResults(cmd, args)
	},
}

type resultsReport struct {
	File     string                `json:"file"`
	Metadata models.RunMetadata    `json:"metadata"`
	Results  []models.UploadResult `json:"results,omitempty"`
}

func runResults(cmd *cobra.Command, args []string) {
	file := cfg.ResultsFile
	if len(args) == 1 {
		file = args[0]
	}

	failedOnly, _ := cmd.Flags().GetBool("failed")

	record, err := results.NewStore().Load(file)
	if err != nil {
		utils.PrintError(err, "results")
		return
	}

	report := resultsReport{
		File:     file,
		Metadata: record.Metadata,
	}
	if failedOnly {
		report.Results = filterFailed(record.Results)
	}

	if err := utils.PrintJSON(report); err != nil {
		utils.PrintError(err, "results")
		return
	}
}

func filterFailed(all []models.UploadResult) []models.UploadResult {
	failed := make([]models.UploadResult, 0)
	for _, r := range all {
		if r.UploadStatus == models.UploadStatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

func init() {
	resultsCmd.Flags().Bool("failed", false, "List only the failed uploads")
}
