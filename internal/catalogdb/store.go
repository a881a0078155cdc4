package catalogdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/hightemp/countrypick/internal/countries"
)

// ErrEmpty is returned by Load when no catalog has been imported.
var ErrEmpty = errors.New("catalog store is empty")

// MetadataVersion is the current metadata format version.
const MetadataVersion = 1

// Metadata describes the last import.
type Metadata struct {
	Version        int       `json:"version"`
	ImportedAt     time.Time `json:"imported_at"`
	Source         string    `json:"source"`
	CountriesCount int       `json:"countries_count"`
	Locales        []string  `json:"locales"`
}

// Store reads and writes a catalog in a migrated database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore wraps db. A nil logger discards log output.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Import replaces the stored catalog with c, keeping its order.
func (s *Store) Import(ctx context.Context, c *countries.Catalog, source string) (*Metadata, error) {
	meta := &Metadata{
		Version:        MetadataVersion,
		ImportedAt:     time.Now().UTC().Truncate(time.Second),
		Source:         source,
		CountriesCount: c.Len(),
	}
	locales := map[string]struct{}{}

	err := withTx(s.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM country_names`,
			`DELETE FROM countries`,
			`DELETE FROM catalog_meta`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}

		insCountry, err := tx.PrepareContext(ctx, `INSERT INTO countries (code, position) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer insCountry.Close()
		insName, err := tx.PrepareContext(ctx, `INSERT INTO country_names (code, locale, name) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insName.Close()

		for i, r := range c.Records() {
			if _, err := insCountry.ExecContext(ctx, r.Code, i); err != nil {
				return fmt.Errorf("insert %s: %w", r.Code, err)
			}
			for loc, name := range r.Names {
				if _, err := insName.ExecContext(ctx, r.Code, loc, name); err != nil {
					return fmt.Errorf("insert %s/%s: %w", r.Code, loc, err)
				}
				locales[loc] = struct{}{}
			}
		}

		for loc := range locales {
			meta.Locales = append(meta.Locales, loc)
		}
		sort.Strings(meta.Locales)

		return writeMetadata(ctx, tx, meta)
	})
	if err != nil {
		return nil, fmt.Errorf("import catalog: %w", err)
	}

	s.logger.Info("catalog imported", "countries", meta.CountriesCount, "locales", len(meta.Locales), "source", source)
	return meta, nil
}

// Load reads the stored catalog. Flag references are derived from opts.
func (s *Store) Load(ctx context.Context, opts countries.LoadOptions) (*countries.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.code, n.locale, n.name
		FROM countries c
		JOIN country_names n ON n.code = c.code
		ORDER BY c.position, n.locale`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var records []countries.Record
	for rows.Next() {
		var code, loc, name string
		if err := rows.Scan(&code, &loc, &name); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		if n := len(records); n == 0 || records[n-1].Code != code {
			records = append(records, countries.Record{Code: code, Names: map[string]string{}})
		}
		records[len(records)-1].Names[loc] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	c, err := countries.New(records, opts)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("catalog loaded from db", "countries", c.Len())
	return c, nil
}

// Count returns the number of stored countries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return n, nil
}

// Metadata returns the metadata of the last import, or ErrEmpty.
func (s *Store) Metadata(ctx context.Context) (*Metadata, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM catalog_meta`)
	if err != nil {
		return nil, fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrEmpty
	}

	meta := &Metadata{Source: values["source"]}
	meta.Version, _ = strconv.Atoi(values["version"])
	meta.CountriesCount, _ = strconv.Atoi(values["countries_count"])
	if t, err := time.Parse(time.RFC3339, values["imported_at"]); err == nil {
		meta.ImportedAt = t
	}

	locRows, err := s.db.QueryContext(ctx, `SELECT DISTINCT locale FROM country_names ORDER BY locale`)
	if err != nil {
		return nil, err
	}
	defer locRows.Close()
	for locRows.Next() {
		var loc string
		if err := locRows.Scan(&loc); err != nil {
			return nil, err
		}
		meta.Locales = append(meta.Locales, loc)
	}
	return meta, locRows.Err()
}

func writeMetadata(ctx context.Context, tx *sql.Tx, m *Metadata) error {
	values := map[string]string{
		"version":         strconv.Itoa(m.Version),
		"imported_at":     m.ImportedAt.Format(time.RFC3339),
		"source":          m.Source,
		"countries_count": strconv.Itoa(m.CountriesCount),
	}
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, `INSERT INTO catalog_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return nil
}
