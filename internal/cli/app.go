package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hightemp/countrypick/internal/catalogdb"
	"github.com/hightemp/countrypick/internal/config"
	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/locale"
	"github.com/hightemp/countrypick/internal/logging"
	"github.com/hightemp/countrypick/internal/output"
	"github.com/hightemp/countrypick/internal/selection"
)

// globalOptions are the persistent flags. Empty values defer to the config.
type globalOptions struct {
	ConfigFile    string
	Locale        string
	Exclude       []string
	ExcludeFile   string
	CountriesFile string
	CatalogPath   string
	CatalogDB     string
	Flags         string
	JSON          bool
	Verbose       bool
}

// app is everything a command needs, resolved from flags and config.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	catalog   *countries.Catalog
	source    string
	locale    string
	codes     []string
	excluded  []string
	flagStyle countries.FlagStyle
	json      bool
}

func loadApp(ctx context.Context, opts globalOptions, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	if opts.CatalogPath != "" {
		cfg.Catalog.Path = opts.CatalogPath
	}
	if opts.CatalogDB != "" {
		cfg.Catalog.DB = opts.CatalogDB
	}
	if opts.Flags != "" {
		cfg.Flags.Style = opts.Flags
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(stderr, level)

	style, err := countries.ParseFlagStyle(cfg.Flags.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		flagStyle: style,
		json:      opts.JSON,
		locale:    resolveLocale(opts.Locale, cfg.Locale, os.Getenv),
	}

	loadOpts := countries.LoadOptions{Flags: style, ImageBase: cfg.Flags.ImageBase}
	a.catalog, a.source, err = loadCatalog(ctx, cfg.Catalog, loadOpts, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoCatalog, err)
	}

	a.excluded, err = collectExcluded(cfg.Exclude, opts.Exclude, opts.ExcludeFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}

	a.codes = a.catalog.Codes()
	if opts.CountriesFile != "" {
		a.codes, err = readCodeFile(opts.CountriesFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
		}
	}

	logger.Debug("configuration resolved",
		"catalog", a.source,
		"countries", a.catalog.Len(),
		"locale", a.locale,
		"excluded", len(a.excluded),
		"flags", style)
	return a, nil
}

// resolveLocale picks the flag, then the config, then the environment.
func resolveLocale(flag, configured string, getenv func(string) string) string {
	for _, tag := range []string{flag, configured} {
		if strings.TrimSpace(tag) != "" {
			return locale.Resolve(tag)
		}
	}
	return locale.FromEnv(getenv)
}

func loadCatalog(ctx context.Context, cc config.CatalogConfig, opts countries.LoadOptions, logger *slog.Logger) (*countries.Catalog, string, error) {
	switch {
	case cc.DB != "":
		if _, err := os.Stat(cc.DB); err != nil {
			return nil, "", fmt.Errorf("catalog db: %w", err)
		}
		db, err := catalogdb.Open(cc.DB)
		if err != nil {
			return nil, "", err
		}
		defer db.Close()
		if err := catalogdb.Migrate(db); err != nil {
			return nil, "", err
		}
		c, err := catalogdb.NewStore(db, logger).Load(ctx, opts)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", cc.DB, err)
		}
		return c, cc.DB, nil
	case cc.Path != "":
		c, err := countries.Load(cc.Path, opts)
		if err != nil {
			return nil, "", err
		}
		return c, cc.Path, nil
	default:
		c, err := countries.Embedded(opts)
		return c, "embedded", err
	}
}

// collectExcluded merges config, flag and file exclusions.
func collectExcluded(configured, flagged []string, file string) ([]string, error) {
	var excluded []string
	for _, list := range [][]string{configured, flagged} {
		for _, code := range list {
			for _, part := range strings.Split(code, ",") {
				if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
					excluded = append(excluded, part)
				}
			}
		}
	}
	if file != "" {
		codes, err := readCodeFile(file)
		if err != nil {
			return nil, err
		}
		excluded = append(excluded, codes...)
	}
	return excluded, nil
}

func readCodeFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read code list: %w", err)
	}
	return countries.ParseCodeList(string(content))
}

func (a *app) matchOptions() selection.MatchOptions {
	opts := selection.DefaultMatchOptions()
	opts.Threshold = a.cfg.Search.Threshold
	opts.Distance = a.cfg.Search.Distance
	opts.MaxPatternLength = a.cfg.Search.MaxPatternLength
	return opts
}

// showFlags reports whether flags are printed next to names. Image
// references are paths, not glyphs, so only emoji flags are shown.
func (a *app) showFlags() bool {
	return a.flagStyle == countries.FlagEmoji
}

func (a *app) geometry() selection.Geometry {
	return selection.Geometry{
		RowHeight:      a.cfg.UI.RowHeight,
		ViewportHeight: a.cfg.UI.Height * a.cfg.UI.RowHeight,
	}
}

// newSession builds an initialized session for the resolved candidates.
func (a *app) newSession(opts ...selection.Option) (*selection.Session, error) {
	opts = append([]selection.Option{
		selection.WithMatchOptions(a.matchOptions()),
		selection.WithGeometry(a.geometry()),
		selection.WithLogger(a.logger),
	}, opts...)

	s := selection.NewSession(a.catalog, opts...)
	if err := s.Initialize(a.codes, a.excluded, a.locale); err != nil {
		return nil, err
	}
	return s, nil
}

func selectionOutput(r selection.Result) *output.SelectionResult {
	return &output.SelectionResult{Code: r.Code, Name: r.Name, Locale: r.Locale, Names: r.Names}
}
