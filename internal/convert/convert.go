// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs MyST documents through a rewrite pipeline, one file or
// a glob of files at a time.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/convert-myst/internal/rewrite"
	"github.com/pdiddy/convert-myst/pkg/types"
)

// defaultWorkers bounds batch concurrency when BatchConfig.Workers is unset.
const defaultWorkers = 4

// Converter rewrites a whole document. *rewrite.Pipeline implements it.
type Converter interface {
	ConvertWithReport(doc string) (string, rewrite.Report)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertFile reads inPath whole, converts it and writes the result to
// outPath, replacing any existing file. The output directory must exist.
func ConvertFile(ctx context.Context, c Converter, inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return errors.Errorf("reading %s: %w", inPath, err)
	}

	out, report := c.ConvertWithReport(string(data))
	zerolog.Ctx(ctx).Debug().
		Str("input", inPath).
		Str("output", outPath).
		Int("replacements", report.Total()).
		Str("rules", report.String()).
		Msg("converted document")

	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// ConvertDocument converts doc.SourcePath into doc.OutputPath, creating the
// output directory. Unless force is set, an output at least as new as its
// source is left alone and ConversionNone is returned.
func ConvertDocument(ctx context.Context, c Converter, doc types.Document, force bool, w io.Writer) types.ConversionStatus {
	if !force && upToDate(doc.SourcePath, doc.OutputPath) {
		fmt.Fprintf(w, "skipped: %s (up to date)\n", doc.SourcePath)
		return types.ConversionNone
	}

	if err := os.MkdirAll(filepath.Dir(doc.OutputPath), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.SourcePath, err)
		return types.ConversionFailed
	}

	if err := ConvertFile(ctx, c, doc.SourcePath, doc.OutputPath); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.SourcePath, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", doc.SourcePath, doc.OutputPath)
	return types.ConversionDone
}

// ConvertBatch converts docs concurrently, printing per-file status to w and
// returning a summary. Status lines may arrive in any order.
func ConvertBatch(ctx context.Context, c Converter, docs []types.Document, cfg types.BatchConfig, w io.Writer) BatchResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var (
		mu     sync.Mutex
		result BatchResult
	)
	out := &lockedWriter{w: w, mu: &mu}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			status := ConvertDocument(ctx, c, docs[i], cfg.Force, out)

			mu.Lock()
			defer mu.Unlock()
			docs[i].ConversionStatus = status
			switch status {
			case types.ConversionDone:
				result.Converted++
			case types.ConversionNone:
				result.Skipped++
			case types.ConversionFailed:
				result.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertGlob expands a doublestar pattern (e.g. "notebooks/**/*.md") and
// converts every match into cfg.OutDir, keeping each file's path relative to
// the pattern's static base directory.
func ConvertGlob(ctx context.Context, c Converter, pattern string, cfg types.BatchConfig, w io.Writer) (BatchResult, error) {
	docs, err := PlanGlob(pattern, cfg.OutDir)
	if err != nil {
		return BatchResult{}, err
	}
	zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Int("matches", len(docs)).Msg("expanded glob")
	return ConvertBatch(ctx, c, docs, cfg, w), nil
}

// PlanGlob lists the documents a glob conversion would touch, without
// reading or writing anything.
func PlanGlob(pattern, outDir string) ([]types.Document, error) {
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, errors.Errorf("invalid glob pattern %q", pattern)
	}
	if outDir == "" {
		return nil, errors.New("output directory is required")
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("expanding %q: %w", pattern, err)
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	base = filepath.FromSlash(base)

	docs := make([]types.Document, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(base, m)
		if err != nil {
			return nil, errors.Errorf("relative path for %s: %w", m, err)
		}
		docs = append(docs, types.Document{
			SourcePath: m,
			OutputPath: filepath.Join(outDir, rel),
		})
	}
	return docs, nil
}

// upToDate reports whether out exists and was modified no earlier than in.
func upToDate(in, out string) bool {
	outInfo, err := os.Stat(out)
	if err != nil {
		return false
	}
	inInfo, err := os.Stat(in)
	if err != nil {
		return false
	}
	return !outInfo.ModTime().Before(inInfo.ModTime())
}

// lockedWriter serialises status lines from concurrent conversions.
type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
