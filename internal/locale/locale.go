// Package locale resolves user locale tags to the language keys used by the
// country catalog (ISO 639-3, for example "eng", "fra", "deu").
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Default is the locale used when no usable tag is supplied.
const Default = "eng"

// envVars are consulted in POSIX precedence order.
var envVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Resolve maps a BCP 47 tag, a POSIX locale name or an ISO 639 code to a
// catalog language key. Unusable input resolves to Default.
func Resolve(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	if tag == "" || strings.EqualFold(tag, "C") || strings.EqualFold(tag, "POSIX") {
		return Default
	}

	t, err := language.Parse(tag)
	if err != nil {
		return Default
	}
	base, conf := t.Base()
	if conf == language.No {
		return Default
	}
	if iso3 := base.ISO3(); iso3 != "" && iso3 != "und" {
		return iso3
	}
	return Default
}

// FromEnv resolves the locale from LC_ALL, LC_MESSAGES or LANG.
func FromEnv(getenv func(string) string) string {
	for _, key := range envVars {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return Resolve(v)
		}
	}
	return Default
}
