// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package header reads the Jupytext front matter of a MyST notebook source.
package header

import (
	"regexp"

	"gitlab.com/tozd/go/errors"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convert-myst/internal/rewrite"
)

// frontMatter is the block the setup-cells pass inserts after.
var frontMatter = regexp.MustCompile(rewrite.HeaderPattern)

// Header is the decoded Jupytext front matter.
type Header struct {
	Jupytext   Jupytext   `yaml:"jupytext"`
	Kernelspec Kernelspec `yaml:"kernelspec"`
}

// Jupytext describes how the text file maps to a notebook.
type Jupytext struct {
	FormatName         string             `yaml:"format_name"`
	FormatVersion      string             `yaml:"format_version"`
	JupytextVersion    string             `yaml:"jupytext_version"`
	TextRepresentation TextRepresentation `yaml:"text_representation"`
}

// TextRepresentation is the nested form newer Jupytext releases write.
type TextRepresentation struct {
	Extension       string `yaml:"extension"`
	FormatName      string `yaml:"format_name"`
	FormatVersion   string `yaml:"format_version"`
	JupytextVersion string `yaml:"jupytext_version"`
}

// Kernelspec names the kernel the notebook runs under.
type Kernelspec struct {
	DisplayName string `yaml:"display_name"`
	Language    string `yaml:"language"`
	Name        string `yaml:"name"`
}

// Format returns the notebook format name from whichever level it was
// recorded at.
func (h Header) Format() string {
	if h.Jupytext.TextRepresentation.FormatName != "" {
		return h.Jupytext.TextRepresentation.FormatName
	}
	return h.Jupytext.FormatName
}

// Parse finds the first Jupytext front matter block in doc and decodes it.
// It reports false with a nil error when doc has no such block.
func Parse(doc string) (Header, bool, error) {
	m := frontMatter.FindStringSubmatch(doc)
	if m == nil {
		return Header{}, false, nil
	}

	var h Header
	if err := yaml.Unmarshal([]byte(m[1]), &h); err != nil {
		return Header{}, true, errors.Errorf("decoding jupytext header: %w", err)
	}
	return h, true, nil
}
