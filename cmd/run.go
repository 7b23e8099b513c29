package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dogmirror/internal/dogapi"
	"dogmirror/internal/pipeline"
	"dogmirror/internal/results"
	"dogmirror/pkg/utils"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mirror one random image per breed to storage",
	Long: `Run the full mirroring pipeline:

- validate the storage credential
- fetch the breed/sub-breed catalog
- create the base folder and one sub-folder per breed
- upload one random image per breed/sub-breed combination
- write per-file outcomes to a JSON results log

A single breed's folder or upload failure is recorded and skipped; the run
only aborts on an invalid credential, a failed breed list fetch, a failed
base folder creation, or when no image URLs could be collected.

Press Ctrl+C to stop the run; images already submitted stay in place and
the recorded outcomes are still persisted.`,
	Example: `  # Mirror into the configured folder
  dogmirror run

  # Mirror into a different folder with progress output
  dogmirror run --folder DogImages2 --verbose

  # Mirror into an S3 bucket instead of the disk backend
  dogmirror run --backend s3

  # Custom results log and per-request timeout
  dogmirror run --results-file run1.json --timeout 60`,
	Run: func(cmd *cobra.Command, args []string) {
		runRun(cmd)
	},
}

func runRun(cmd *cobra.Command) {
	store, err := newStorageClient(cmd)
	if err != nil {
		utils.PrintError(err, "run")
		return
	}

	resultsFile, _ := cmd.Flags().GetString("results-file")
	if resultsFile == "" {
		resultsFile = cfg.ResultsFile
	}

	catalog := dogapi.New(cfg.DogAPIURL, getRequestTimeout(cmd))
	p := pipeline.New(catalog, store, results.NewStore(), getBaseFolder(cmd), resultsFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Println("\nStopping after the current image...")
			p.Cancel()
		}
	}()

	if isVerbose(cmd) {
		cmd.Printf("Starting mirroring run...\n")
		cmd.Printf("  Backend: %s\n", store.Name())
		cmd.Printf("  Base folder: %s\n", getBaseFolder(cmd))
		cmd.Printf("  Results file: %s\n", resultsFile)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range p.Events() {
			if !isVerbose(cmd) {
				continue
			}
			if event.Total > 0 {
				cmd.Printf("[%s] %s (%d/%d)\n", event.Stage, event.Message, event.Current, event.Total)
			} else {
				cmd.Printf("[%s] %s\n", event.Stage, event.Message)
			}
		}
	}()

	summary, err := p.Run(ctx)
	<-done
	if err != nil {
		utils.PrintError(err, "run")
		return
	}

	if err := utils.PrintJSON(summary); err != nil {
		utils.PrintError(err, "run")
		return
	}

	if isVerbose(cmd) {
		cmd.Println("Mirroring run completed")
	}
}

func init() {
	runCmd.Flags().String("backend", "", "Storage backend to upload to: disk or s3 (default from config)")
	runCmd.Flags().StringP("results-file", "r", "", "Path of the JSON results log (default from config)")
	runCmd.Flags().Int("timeout", 0, "Per-request timeout in seconds (default: 30)")
}
