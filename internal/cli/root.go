// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hightemp/countrypick/internal/selection"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags
var globals globalOptions

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "countrypick",
	Short: "Pick a country from a localized, searchable list",
	Long: `countrypick lets you pick a country from a localized list that narrows
as you type and jumps by first letter.

Interactive picker (needs a terminal):
  countrypick
  countrypick --locale fr --exclude US,RU

Scripting:
  countrypick search germny
  countrypick select DE --json
  cat names.txt | countrypick batch`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPick,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		exitWithCode(exitCodeFor(err), fmt.Sprintf("Error: %v", err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globals.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/countrypick/config.toml)")
	pf.StringVar(&globals.Locale, "locale", "", "display locale, e.g. fr, de_DE.UTF-8, spa (default from config or environment)")
	pf.StringSliceVar(&globals.Exclude, "exclude", nil, "country codes to exclude (repeatable, comma separated)")
	pf.StringVar(&globals.ExcludeFile, "exclude-file", "", "file with country codes to exclude (one per line)")
	pf.StringVar(&globals.CountriesFile, "countries-file", "", "file with the country codes to offer (one per line)")
	pf.StringVar(&globals.CatalogPath, "catalog", "", "TOML catalog file (default embedded catalog)")
	pf.StringVar(&globals.CatalogDB, "catalog-db", "", "SQLite catalog created by 'db import'")
	pf.StringVar(&globals.Flags, "flags", "", "flag style: emoji or image")
	pf.BoolVar(&globals.JSON, "json", false, "output in JSON format")
	pf.BoolVarP(&globals.Verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(lettersCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "countrypick %s (commit %s, built %s, %s)\n", Version, Commit, BuildTime, runtime.Version())
	},
}

// ExitCode constants
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNoCatalog    = 3
	ExitNotFound     = 4
	ExitCancelled    = 5
)

var (
	errInvalidInput = errors.New("invalid input")
	errNoCatalog    = errors.New("catalog unavailable")
	errNotFound     = errors.New("not found")
	errCancelled    = errors.New("cancelled")
)

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errInvalidInput), errors.Is(err, selection.ErrUnknownCode):
		return ExitInvalidInput
	case errors.Is(err, errNoCatalog):
		return ExitNoCatalog
	case errors.Is(err, errNotFound), errors.Is(err, selection.ErrInvalidSelection):
		return ExitNotFound
	case errors.Is(err, errCancelled):
		return ExitCancelled
	default:
		return ExitFailure
	}
}

func exitWithCode(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}
