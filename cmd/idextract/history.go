// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idextract/internal/journal"
	"github.com/pdiddy/idextract/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled extraction runs",
	Long: `History lists extraction runs recorded in the journal, most recent
first. Use --path to show only runs against one file.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Disabled {
		return fmt.Errorf("journal is disabled")
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	path, _ := cmd.Flags().GetString("path")
	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := j.List(cmd.Context(), journal.ListOptions{Path: path, Limit: limit})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), runs, jsonOutput)
}

func formatHistory(w io.Writer, runs []types.Run, jsonOutput bool) error {
	if jsonOutput {
		if runs == nil {
			runs = []types.Run{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-9s  %-7s  %-8s  %-36s  %s\n",
		"Started", "Status", "Records", "Field", "Run", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range runs {
		field := r.Field
		if len(field) > 8 {
			field = field[:5] + "..."
		}
		fmt.Fprintf(w, "%-20s  %-9s  %-7d  %-8s  %-36s  %s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Status, r.Records, field, r.ID, r.Path)
		if r.Status == types.RunFailed && r.Error != "" {
			fmt.Fprintf(w, "%22s%s\n", "", r.Error)
		}
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func init() {
	historyCmd.Flags().String("path", "", "only show runs against this file")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
