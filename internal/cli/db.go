package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hightemp/countrypick/internal/catalogdb"
	"github.com/hightemp/countrypick/internal/config"
	"github.com/hightemp/countrypick/internal/output"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the SQLite catalog store",
}

var dbImportCmd = &cobra.Command{
	Use:   "import [PATH]",
	Short: "Write the active catalog into a SQLite store",
	Long: `Writes the active catalog (embedded, --catalog file, or another store)
into a SQLite database, replacing its contents. Use the database afterwards
with --catalog-db or catalog.db in the config file.

Examples:
  countrypick db import                          # default location
  countrypick db import ./catalog.db
  countrypick db import --catalog my.toml ./my.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), globals, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		path := config.DefaultCatalogDBPath()
		if len(args) == 1 {
			path = args[0]
		}
		return runDBImport(cmd.Context(), cmd.OutOrStdout(), a, path)
	},
}

var dbInfoCmd = &cobra.Command{
	Use:   "info [PATH]",
	Short: "Show what a SQLite store holds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultCatalogDBPath()
		if len(args) == 1 {
			path = args[0]
		}
		return runDBInfo(cmd.Context(), cmd.OutOrStdout(), path, globals.JSON)
	},
}

func init() {
	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbInfoCmd)
}

func runDBImport(ctx context.Context, w io.Writer, a *app, path string) error {
	if err := config.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := catalogdb.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := catalogdb.Migrate(db); err != nil {
		return err
	}

	meta, err := catalogdb.NewStore(db, a.logger).Import(ctx, a.catalog, a.source)
	if err != nil {
		return err
	}
	return writeMetadata(w, path, meta, a.json)
}

func runDBInfo(ctx context.Context, w io.Writer, path string, jsonOutput bool) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", errNoCatalog, err)
	}
	db, err := catalogdb.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := catalogdb.Migrate(db); err != nil {
		return err
	}

	meta, err := catalogdb.NewStore(db, nil).Metadata(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errNoCatalog, path, err)
	}
	return writeMetadata(w, path, meta, jsonOutput)
}

func writeMetadata(w io.Writer, path string, meta *catalogdb.Metadata, jsonOutput bool) error {
	if jsonOutput {
		jsonStr, err := output.JSON(meta)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonStr)
		return nil
	}
	fmt.Fprintf(w, "Catalog store: %s\n", path)
	fmt.Fprintf(w, "  Countries: %d\n", meta.CountriesCount)
	fmt.Fprintf(w, "  Locales: %s\n", strings.Join(meta.Locales, ", "))
	fmt.Fprintf(w, "  Source: %s\n", meta.Source)
	fmt.Fprintf(w, "  Imported: %s\n", meta.ImportedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
