//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const (
	notebooksGlob = "notebooks/**/*.md"
	notebooksOut  = "build/notebooks"
)

// Convert rewrites every MyST tutorial under notebooks/ into build/notebooks/.
// Set NOTEBOOKS and NOTEBOOKS_OUT to convert a different tree.
func Convert() error {
	ensureBuilt()

	glob := notebooksGlob
	if g := os.Getenv("NOTEBOOKS"); g != "" {
		glob = g
	}
	out := notebooksOut
	if o := os.Getenv("NOTEBOOKS_OUT"); o != "" {
		out = o
	}
	return sh.RunV(filepath.Join(binDir, binName), "batch", glob, "--out-dir", out)
}

// Clean removes build outputs.
func Clean() error {
	if err := sh.Rm(binDir); err != nil {
		return err
	}
	return sh.Rm("build")
}
