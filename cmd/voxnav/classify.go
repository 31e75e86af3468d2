package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voxnav/internal/intent"
)

var classifyCurrent string

var classifyCmd = &cobra.Command{
	Use:   "classify <utterance>",
	Short: "Classify one utterance and print the resulting action",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		classifier := intent.NewClassifier(buildOracle(), intent.WithLogger(logger))
		action := classifier.Classify(cmd.Context(), intent.Turn{
			Utterance:    strings.Join(args, " "),
			Destinations: catalog.Destinations(),
			CurrentID:    classifyCurrent,
		})

		out, err := json.MarshalIndent(action, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyCurrent, "current", "home", "id of the currently active destination")
}
