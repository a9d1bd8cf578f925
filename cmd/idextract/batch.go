// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idextract/internal/extract"
)

const defaultManifest = "datasets.yaml"

var batchCmd = &cobra.Command{
	Use:   "batch [manifest]",
	Short: "Reduce every dataset listed in a YAML manifest",
	Long: `Batch reads a YAML manifest (datasets.yaml by default) listing JSON files
and reduces each one in order, exactly as extract does. A failed dataset is
reported and the batch continues; the command exits non-zero if any failed.

  datasets:
    - name: places
      path: data/place_ids.json
    - name: tags
      path: data/tag_ids.json
      field: id

Relative paths resolve against the manifest's directory. field overrides
the configured field for one dataset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifestPath := defaultManifest
	if len(args) == 1 {
		manifestPath = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := extract.ReadManifest(manifestPath)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	result, err := newExtractor(cfg, j).RunBatch(cmd.Context(), m, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d dataset(s) failed", result.Failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
