// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/pdiddy/convert-myst/internal/convert"
	"github.com/pdiddy/convert-myst/internal/rewrite"
	"github.com/pdiddy/convert-myst/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <glob>",
	Short: "Convert every file matching a glob into an output directory",
	Long: `Batch expands a doublestar glob such as "notebooks/**/*.md" and converts
each match into --out-dir, keeping the path below the glob's fixed prefix.
Outputs newer than their source are skipped unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("out-dir", "", "directory that receives converted files (required)")
	batchCmd.Flags().Bool("force", false, "convert even when the output is up to date")
	batchCmd.Flags().Int("workers", 4, "number of files converted concurrently")
	_ = batchCmd.MarkFlagRequired("out-dir")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	force, _ := cmd.Flags().GetBool("force")
	workers, _ := cmd.Flags().GetInt("workers")
	if workers < 1 {
		return errors.Errorf("--workers must be at least 1, got %d", workers)
	}

	cfg := types.BatchConfig{
		OutDir:  outDir,
		Force:   force,
		Workers: workers,
	}
	p := rewrite.NewPipeline(conversionConfig())

	result, err := convert.ConvertGlob(cmd.Context(), p, args[0], cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.Total() == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no files match %s\n", args[0])
	}
	if result.HasFailures() {
		return errors.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
