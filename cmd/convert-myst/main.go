// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convert-myst CLI, which rewrites
// MyST/Jupytext tutorial sources into notebook-ready markdown.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"github.com/pdiddy/convert-myst/internal/convert"
	"github.com/pdiddy/convert-myst/internal/rewrite"
	"github.com/pdiddy/convert-myst/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const usageLine = "Usage: convert-myst <input_file> <output_file>"

// configErr holds a config file failure from initConfig, which cobra gives
// no way to return. PersistentPreRunE reports it.
var configErr error

// errUsage is returned after the usage line has already been printed.
var errUsage = errors.Base("wrong number of arguments")

// Configuration keys, shared by convert-myst.yaml and the bound flags.
const (
	keyIncludeSetupCells = "include_setup_cells"
	keyEmitFetchSnippet  = "emit_fetch_snippet"
	keyDataBaseURL       = "data_base_url"
	keySQLMagic          = "sql_magic"
)

// rootCmd converts a single file; subcommands cover batch runs and inspection.
var rootCmd = &cobra.Command{
	Use:   "convert-myst <input_file> <output_file>",
	Short: "Convert MyST tutorial markdown into notebook-ready markdown",
	Long: `convert-myst rewrites a MyST/Jupytext markdown tutorial so that notebook
tooling can execute it: DuckDB setup cells are inserted after the Jupytext
header, SQL/python/bash fences become {code-cell} blocks, {Download} links
point at the published data files, and Exercise/Note admonitions become
markdown cells.

Patterns that are absent are skipped; conversion never fails on content.`,
	Args:          exactFiles,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			zerolog.Ctx(cmd.Context()).Debug().Str("path", used).Msg("using config file")
		}
		return nil
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./convert-myst.yaml or ~/.config/convert-myst/convert-myst.yaml)")
	flags.Bool("debug", false, "log each conversion step to stderr")
	flags.Bool("setup-cells", true, "insert DuckDB setup cells after the Jupytext header")
	flags.Bool("fetch-snippet", false, "add a !wget cell after each rewritten download link")
	flags.String("base-url", rewrite.DefaultDataBaseURL, "base URL for rewritten download links")
	flags.String("sql-magic", rewrite.DefaultSQLMagic, "cell magic written at the top of SQL cells")

	mustBind(keyIncludeSetupCells, "setup-cells")
	mustBind(keyEmitFetchSnippet, "fetch-snippet")
	mustBind(keyDataBaseURL, "base-url")
	mustBind(keySQLMagic, "sql-magic")

	defaults := rewrite.DefaultOptions()
	viper.SetDefault(keyIncludeSetupCells, defaults.IncludeSetupCells)
	viper.SetDefault(keyEmitFetchSnippet, defaults.EmitFetchSnippet)
	viper.SetDefault(keyDataBaseURL, defaults.DataBaseURL)
	viper.SetDefault(keySQLMagic, defaults.SQLMagic)
}

func mustBind(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convert-myst")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convert-myst"))
		}
	}

	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		// Only a config file absent from the search paths is fine; a file
		// named with --config must exist and parse.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = errors.Errorf("reading config: %w", err)
		}
	}
}

// conversionConfig resolves pipeline options from flags, config file and
// defaults, in that order of precedence.
func conversionConfig() types.ConversionConfig {
	return types.ConversionConfig{
		IncludeSetupCells: viper.GetBool(keyIncludeSetupCells),
		EmitFetchSnippet:  viper.GetBool(keyEmitFetchSnippet),
		DataBaseURL:       viper.GetString(keyDataBaseURL),
		SQLMagic:          viper.GetString(keySQLMagic),
	}
}

// exactFiles accepts exactly an input and an output path. Anything else
// prints the usage line to stdout before any file is touched.
func exactFiles(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return errUsage
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]
	p := rewrite.NewPipeline(conversionConfig())

	if err := convert.ConvertFile(cmd.Context(), p, in, out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s\n", in, out)
	return nil
}

func newLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func main() {
	logger := newLogger()
	ctx := logger.WithContext(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUsage) {
			logger.Error().Err(err).Msg("convert-myst failed")
		}
		os.Exit(1)
	}
}
