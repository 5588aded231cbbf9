// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and status types shared between the
// rewrite pipeline, the file conversion layer and the CLI.
package types

// ConversionConfig selects which optional rewrite passes run and the values
// they substitute. It is read from convert-myst.yaml and overridden by flags.
type ConversionConfig struct {
	// IncludeSetupCells inserts the DuckDB install/load cells after the
	// Jupytext header (default true).
	IncludeSetupCells bool `json:"include_setup_cells" yaml:"include_setup_cells"`

	// EmitFetchSnippet appends a "!wget" code cell after every rewritten
	// download link (default false).
	EmitFetchSnippet bool `json:"emit_fetch_snippet" yaml:"emit_fetch_snippet"`

	// DataBaseURL is prefixed to CSV filenames in rewritten download links.
	DataBaseURL string `json:"data_base_url" yaml:"data_base_url"`

	// SQLMagic is the cell magic written on the first line of SQL cells.
	SQLMagic string `json:"sql_magic" yaml:"sql_magic"`
}

// BatchConfig holds settings for converting many files in one run.
type BatchConfig struct {
	// OutDir receives converted files, mirroring paths below the glob base.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Force rewrites outputs that are already newer than their input.
	Force bool `json:"force" yaml:"force"`

	// Workers bounds concurrent conversions (default 4).
	Workers int `json:"workers" yaml:"workers"`
}
