//go:build mage

// Package main contains Mage build targets for convert-myst developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/convert-myst/internal/rewrite"
)

const (
	binDir  = "bin"
	binName = "convert-myst"
	cmdPkg  = "./cmd/convert-myst"
)

// Default is run when mage is called without a target.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests for every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints Go line counts and, for the tutorial notebooks, how many
// words they hold and how many rewrites each conversion pass would make.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)

	nb, err := notebookStats(notebooksGlob)
	if err != nil {
		return err
	}
	fmt.Printf("Notebooks (%s): %d files, %d words\n", notebooksGlob, nb.files, nb.words)
	for _, c := range nb.rewrites.Counts {
		fmt.Printf("  %-16s %d\n", c.Rule, c.Matches)
	}
	return nil
}

// countGoLines counts non-blank lines in production and test Go files below
// root. Directories starting with "_" or "." are skipped, as the go tool does.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(data)
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

func nonBlankLines(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}

type notebookSummary struct {
	files    int
	words    int
	rewrites rewrite.Report
}

// notebookStats runs the default pipeline over every notebook matching
// pattern and sums the per-rule counts. Nothing is written.
func notebookStats(pattern string) (notebookSummary, error) {
	var sum notebookSummary
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return sum, fmt.Errorf("expanding %s: %w", pattern, err)
	}

	p := rewrite.NewPipeline(rewrite.DefaultOptions())
	totals := make(map[string]int)
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return sum, fmt.Errorf("reading %s: %w", m, err)
		}
		sum.files++
		sum.words += len(strings.Fields(string(data)))

		_, report := p.ConvertWithReport(string(data))
		for _, c := range report.Counts {
			totals[c.Rule] += c.Matches
		}
	}

	for _, r := range p.Rules() {
		sum.rewrites.Counts = append(sum.rewrites.Counts, rewrite.RuleCount{Rule: r.Name, Matches: totals[r.Name]})
	}
	return sum, nil
}

// ensureBuilt makes targets that run the CLI depend on a fresh binary.
func ensureBuilt() {
	mg.Deps(Build)
}
