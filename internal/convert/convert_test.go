// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convert-myst/internal/rewrite"
	"github.com/pdiddy/convert-myst/pkg/types"
)

// upperConverter implements Converter for testing by upper-casing the text.
type upperConverter struct{}

func (upperConverter) ConvertWithReport(doc string) (string, rewrite.Report) {
	return strings.ToUpper(doc), rewrite.Report{}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lesson.md")
	out := filepath.Join(dir, "lesson.nb.md")
	writeFile(t, in, "```SQL\nSELECT 1;\n```")

	p := rewrite.NewPipeline(rewrite.DefaultOptions())
	require.NoError(t, ConvertFile(context.Background(), p, in, out))

	assert.Equal(t, "```{code-cell}\n%%dql\nSELECT 1;\n```", readFile(t, out))
}

func TestConvertFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.md")
	out := filepath.Join(dir, "out.md")
	writeFile(t, in, "new")
	writeFile(t, out, "old content that is longer")

	require.NoError(t, ConvertFile(context.Background(), upperConverter{}, in, out))
	assert.Equal(t, "NEW", readFile(t, out))
}

func TestConvertFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing input", func(t *testing.T) {
		out := filepath.Join(dir, "out.md")
		err := ConvertFile(context.Background(), upperConverter{}, filepath.Join(dir, "nope.md"), out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading")
		assert.NoFileExists(t, out)
	})

	t.Run("unwritable output", func(t *testing.T) {
		in := filepath.Join(dir, "in.md")
		writeFile(t, in, "x")
		err := ConvertFile(context.Background(), upperConverter{}, in, filepath.Join(dir, "missing", "out.md"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "writing")
	})
}

func TestConvertDocument(t *testing.T) {
	tests := []struct {
		name       string
		preCreate  bool // write an up-to-date output before running
		force      bool
		wantStatus types.ConversionStatus
		wantLog    string
	}{
		{
			name:       "successful conversion",
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
		},
		{
			name:       "skip up-to-date output",
			preCreate:  true,
			wantStatus: types.ConversionNone,
			wantLog:    "skipped:",
		},
		{
			name:       "force rewrites up-to-date output",
			preCreate:  true,
			force:      true,
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			doc := types.Document{
				SourcePath: filepath.Join(dir, "src", "a.md"),
				OutputPath: filepath.Join(dir, "out", "nested", "a.md"),
			}
			writeFile(t, doc.SourcePath, "body")
			if tt.preCreate {
				writeFile(t, doc.OutputPath, "existing")
				future := time.Now().Add(time.Hour)
				require.NoError(t, os.Chtimes(doc.OutputPath, future, future))
			}

			var log bytes.Buffer
			status := ConvertDocument(context.Background(), upperConverter{}, doc, tt.force, &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, log.String(), tt.wantLog)
		})
	}
}

func TestConvertDocument_MissingSource(t *testing.T) {
	dir := t.TempDir()
	doc := types.Document{
		SourcePath: filepath.Join(dir, "missing.md"),
		OutputPath: filepath.Join(dir, "out.md"),
	}
	var log bytes.Buffer
	status := ConvertDocument(context.Background(), upperConverter{}, doc, false, &log)

	assert.Equal(t, types.ConversionFailed, status)
	assert.Contains(t, log.String(), "failed:")
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	var docs []types.Document
	for _, name := range []string{"a", "b", "c"} {
		docs = append(docs, types.Document{
			SourcePath: filepath.Join(dir, "src", name+".md"),
			OutputPath: filepath.Join(dir, "out", name+".md"),
		})
	}
	writeFile(t, docs[0].SourcePath, "a")
	writeFile(t, docs[1].SourcePath, "b")
	// c has no source and fails.

	// Pre-create output for b to trigger skip.
	writeFile(t, docs[1].OutputPath, "B")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(docs[1].OutputPath, future, future))

	var log bytes.Buffer
	result := ConvertBatch(context.Background(), upperConverter{}, docs, types.BatchConfig{Workers: 2}, &log)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())
	assert.Contains(t, log.String(), "Batch summary:")

	assert.Equal(t, types.ConversionDone, docs[0].ConversionStatus)
	assert.Equal(t, types.ConversionNone, docs[1].ConversionStatus)
	assert.Equal(t, types.ConversionFailed, docs[2].ConversionStatus)
	assert.Equal(t, "A", readFile(t, docs[0].OutputPath))
}

func TestConvertGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notebooks", "intro.md"), "```python\nx\n```\n")
	writeFile(t, filepath.Join(dir, "notebooks", "part2", "joins.md"), "```SQL\nSELECT 1;\n```\n")
	writeFile(t, filepath.Join(dir, "notebooks", "part2", "skip.txt"), "not markdown")

	outDir := filepath.Join(dir, "build")
	pattern := filepath.ToSlash(filepath.Join(dir, "notebooks")) + "/**/*.md"

	var log bytes.Buffer
	p := rewrite.NewPipeline(rewrite.DefaultOptions())
	result, err := ConvertGlob(context.Background(), p, pattern, types.BatchConfig{OutDir: outDir}, &log)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Converted)
	assert.False(t, result.HasFailures())
	assert.Equal(t, "```{code-cell}\nx\n```\n", readFile(t, filepath.Join(outDir, "intro.md")))
	assert.Equal(t, "```{code-cell}\n%%dql\nSELECT 1;\n```\n", readFile(t, filepath.Join(outDir, "part2", "joins.md")))
	assert.NoFileExists(t, filepath.Join(outDir, "part2", "skip.txt"))
}

func TestPlanGlob_Errors(t *testing.T) {
	_, err := PlanGlob("notebooks/[", "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")

	_, err = PlanGlob("notebooks/*.md", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory is required")
}
