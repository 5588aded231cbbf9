// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/pdiddy/convert-myst/internal/header"
	"github.com/pdiddy/convert-myst/internal/rewrite"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the Jupytext header and which rewrites a file would receive",
	Long: `Inspect reads a MyST source without writing anything. It prints the
decoded Jupytext header and the number of matches each rewrite pass would
replace with the current options.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Errorf("reading %s: %w", args[0], err)
	}
	doc := string(data)

	h, found, err := header.Parse(doc)
	if err != nil {
		// Conversion does not depend on the header decoding, so report and go on.
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "header: %v\n", err)
	}

	_, report := rewrite.NewPipeline(conversionConfig()).ConvertWithReport(doc)
	printInspection(cmd.OutOrStdout(), args[0], h, found && err == nil, report)
	return nil
}

func printInspection(w io.Writer, path string, h header.Header, found bool, report rewrite.Report) {
	bold := color.New(color.Bold)
	hit := color.New(color.FgGreen)
	miss := color.New(color.Faint)

	bold.Fprintf(w, "%s\n", path)
	if found {
		fmt.Fprintf(w, "  format:  %s\n", h.Format())
		fmt.Fprintf(w, "  kernel:  %s\n", h.Kernelspec.Name)
	} else {
		miss.Fprintln(w, "  no jupytext header")
	}

	for _, c := range report.Counts {
		line := fmt.Sprintf("  %-16s %d\n", c.Rule, c.Matches)
		if c.Matches > 0 {
			hit.Fprint(w, line)
		} else {
			miss.Fprint(w, line)
		}
	}
	bold.Fprintf(w, "  total:   %d\n", report.Total())
}
