// Package countries provides the ISO-3166 country catalog with per-locale names.
package countries

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed countries.toml
var catalogData []byte

// CommonName is the names key every record carries. It is the fallback for
// any locale a record has no translation for.
const CommonName = "common"

// ErrInvalidCatalog is returned when catalog data is malformed.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Record is a single catalog entry.
type Record struct {
	Code  string
	Names map[string]string
	// Flag is an opaque flag reference. Its form depends on LoadOptions.Flags.
	Flag string
}

// Name returns the record's name for locale, falling back to the common name.
func (r *Record) Name(locale string) string {
	if name, ok := r.Names[locale]; ok && name != "" {
		return name
	}
	return r.Names[CommonName]
}

// Catalog is an ordered, immutable set of country records.
type Catalog struct {
	codes   []string
	records map[string]*Record
}

type catalogFile struct {
	Country []struct {
		Code string            `toml:"code"`
		Name map[string]string `toml:"name"`
	} `toml:"country"`
}

var (
	defaultCatalog *Catalog
	once           sync.Once
)

// Default returns the process-wide embedded catalog with emoji flags.
func Default() *Catalog {
	once.Do(func() {
		c, err := Embedded(LoadOptions{})
		if err != nil {
			panic(fmt.Sprintf("countries: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Embedded parses the catalog bundled with the binary.
func Embedded(opts LoadOptions) (*Catalog, error) {
	return Parse(catalogData, opts)
}

// Load reads a TOML catalog file.
func Load(path string, opts LoadOptions) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data, opts)
}

// Parse decodes TOML catalog data.
func Parse(data []byte, opts LoadOptions) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	records := make([]Record, 0, len(f.Country))
	for _, c := range f.Country {
		records = append(records, Record{Code: c.Code, Names: c.Name})
	}
	return New(records, opts)
}

// New builds a catalog from records in the given order. Flag references are
// derived from opts; any Flag already set on a record is replaced.
func New(records []Record, opts LoadOptions) (*Catalog, error) {
	c := &Catalog{
		codes:   make([]string, 0, len(records)),
		records: make(map[string]*Record, len(records)),
	}

	for i, r := range records {
		code := strings.ToUpper(strings.TrimSpace(r.Code))
		if code == "" {
			return nil, fmt.Errorf("%w: entry %d has no code", ErrInvalidCatalog, i)
		}
		if _, dup := c.records[code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrInvalidCatalog, code)
		}
		if strings.TrimSpace(r.Names[CommonName]) == "" {
			return nil, fmt.Errorf("%w: %s has no common name", ErrInvalidCatalog, code)
		}

		names := make(map[string]string, len(r.Names))
		for k, v := range r.Names {
			names[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}

		c.records[code] = &Record{
			Code:  code,
			Names: names,
			Flag:  opts.flagRef(code),
		}
		c.codes = append(c.codes, code)
	}

	return c, nil
}

// Get returns the record for code. Codes are matched case-insensitively.
func (c *Catalog) Get(code string) (*Record, bool) {
	r, ok := c.records[strings.ToUpper(code)]
	return r, ok
}

// Has checks if code is in the catalog.
func (c *Catalog) Has(code string) bool {
	_, ok := c.records[strings.ToUpper(code)]
	return ok
}

// Name returns the display name of code in locale.
// Returns empty string if the code is not found.
func (c *Catalog) Name(code, locale string) string {
	r, ok := c.Get(code)
	if !ok {
		return ""
	}
	return r.Name(locale)
}

// Codes returns all codes in catalog order.
func (c *Catalog) Codes() []string {
	result := make([]string, len(c.codes))
	copy(result, c.codes)
	return result
}

// Records returns all records in catalog order.
func (c *Catalog) Records() []*Record {
	result := make([]*Record, len(c.codes))
	for i, code := range c.codes {
		result[i] = c.records[code]
	}
	return result
}

// Len returns the number of countries.
func (c *Catalog) Len() int {
	return len(c.codes)
}

// ParseCodeList parses country codes from text (one code per line).
// Returns codes in uppercase.
func ParseCodeList(content string) ([]string, error) {
	var result []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code := strings.ToUpper(line)
		if len(code) == 2 {
			result = append(result, code)
		}
	}
	return result, scanner.Err()
}
