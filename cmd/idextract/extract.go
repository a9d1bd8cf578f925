// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/idextract/internal/extract"
	"github.com/pdiddy/idextract/internal/journal"
	"github.com/pdiddy/idextract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [path]",
	Short: "Replace a JSON file of records with the list of their ids",
	Long: `Extract reads a JSON array of objects, takes the id member of each
object in order, and overwrites the same file with the ids as a JSON array
indented with two spaces. The path defaults to place_ids.json.

The file is left untouched if it cannot be read, is not valid JSON, or any
element is not an object with an id. The rewrite itself is not atomic.
Running extract twice on the same file fails on the second run, because the
file then holds ids rather than records.

Use --dry-run to print the result without modifying the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := types.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		ids, err := newExtractor(cfg, nil).Extract(ctx, path)
		if err != nil {
			return err
		}
		if err := extract.Encode(out, ids, cfg.Extract.Indent); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	res, err := newExtractor(cfg, j).ExtractAndReplace(ctx, path)
	if err != nil {
		return withReducedHint(ctx, j, path, err)
	}

	fmt.Fprintf(out, "extracted: %s (%d ids)\n", path, res.Records)
	return nil
}

// --- shared helpers ---

// openJournal returns nil when journaling is disabled.
func openJournal(cfg types.JournalConfig) (*journal.Journal, error) {
	if cfg.Disabled {
		return nil, nil
	}
	j, err := journal.Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("journal opened", zap.String("dir", cfg.Dir))
	return j, nil
}

func newExtractor(cfg types.Config, j *journal.Journal) *extract.Extractor {
	opts := []extract.Option{
		extract.WithField(cfg.Extract.Field),
		extract.WithIndent(cfg.Extract.Indent),
		extract.WithLogger(logger),
	}
	if j != nil {
		opts = append(opts, extract.WithRecorder(j))
	}
	return extract.New(opts...)
}

// withReducedHint annotates a data-shape failure with the journaled run that
// already reduced the file, if there was one.
func withReducedHint(ctx context.Context, j *journal.Journal, path string, err error) error {
	if j == nil || !extract.IsKind(err, extract.KindDataShape) {
		return err
	}
	last, lerr := j.LastSuccess(ctx, path)
	if lerr != nil {
		logger.Warn("looking up previous run failed", zap.String("path", path), zap.Error(lerr))
		return err
	}
	if last == nil {
		return err
	}
	return fmt.Errorf("%w (file was already reduced by run %s at %s)",
		err, last.ID, last.FinishedAt.Local().Format(time.RFC3339))
}

func init() {
	extractCmd.Flags().String("field", types.DefaultIDField, "member to project out of each record")
	extractCmd.Flags().Int("indent", types.DefaultIndent, "spaces per indentation level (0 = compact)")
	extractCmd.Flags().Bool("dry-run", false, "print the ids instead of rewriting the file")

	for key, flag := range map[string]string{"extract.field": "field", "extract.indent": "indent"} {
		if err := viper.BindPFlag(key, extractCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(extractCmd)
}
