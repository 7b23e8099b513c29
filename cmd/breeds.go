package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"dogmirror/internal/dogapi"
	"dogmirror/pkg/utils"
)

var breedsCmd = &cobra.Command{
	Use:   "breeds",
	Short: "List the breed catalog",
	Long: `Fetch the full breed/sub-breed catalog and print it together with
the number of images a mirroring run would attempt.`,
	Example: `  # Show the catalog
  dogmirror breeds

  # Verbose output
  dogmirror breeds --verbose`,
	Run: func(cmd *cobra.Command, args []string) {
		runBreeds(cmd)
	},
}

type breedCatalog struct {
	TotalBreeds int                 `json:"total_breeds"`
	TotalImages int                 `json:"total_images"`
	Breeds      map[string][]string `json:"breeds"`
}

func runBreeds(cmd *cobra.Command) {
	catalog := dogapi.New(cfg.DogAPIURL, getRequestTimeout(cmd))

	ctx, cancel := context.WithTimeout(context.Background(), getRequestTimeout(cmd))
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Fetching breed catalog from: %s\n", cfg.DogAPIURL)
	}

	breeds, err := catalog.ListBreeds(ctx)
	if err != nil {
		utils.PrintError(err, "breeds")
		return
	}

	info := breedCatalog{
		TotalBreeds: len(breeds),
		TotalImages: breeds.TaskCount(),
		Breeds:      breeds,
	}

	if err := utils.PrintJSON(info); err != nil {
		utils.PrintError(err, "breeds")
		return
	}

	if isVerbose(cmd) {
		cmd.Printf("Breed catalog retrieved successfully\n")
	}
}

func init() {
	breedsCmd.Flags().Int("timeout", 0, "Timeout in seconds for the request (default: 30)")
}
