// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one document.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Document pairs a source file with the path its conversion is written to.
type Document struct {
	// SourcePath is the MyST/Jupytext input file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputPath is where the converted markdown is written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// ConversionStatus records the result of the last conversion attempt.
	ConversionStatus ConversionStatus `json:"conversion_status" yaml:"conversion_status"`
}
