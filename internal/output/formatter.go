// Package output handles output formatting.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SelectionResult is a selected country.
type SelectionResult struct {
	Code   string            `json:"code"`
	Name   string            `json:"name"`
	Locale string            `json:"locale"`
	Names  map[string]string `json:"names,omitempty"`
}

// FormatText formats the selection as tab-separated text.
func (r *SelectionResult) FormatText() string {
	return fmt.Sprintf("%s\t%s", r.Code, r.Name)
}

// FormatJSON formats the selection as JSON.
func (r *SelectionResult) FormatJSON() (string, error) {
	return marshal(r)
}

// Match is one ranked search hit.
type Match struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// MatchResult contains the ranked matches for one query.
type MatchResult struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
	Error   string  `json:"error,omitempty"`
}

// Best returns the top match, if any.
func (r *MatchResult) Best() (Match, bool) {
	if len(r.Matches) == 0 {
		return Match{}, false
	}
	return r.Matches[0], true
}

// FormatText formats the query with its best match as tab-separated text.
func (r *MatchResult) FormatText() string {
	if r.Error != "" {
		return fmt.Sprintf("%s\t-\t-\tERROR: %s", r.Query, r.Error)
	}
	best, ok := r.Best()
	if !ok {
		return fmt.Sprintf("%s\t-\t-\tno match", r.Query)
	}
	return fmt.Sprintf("%s\t%s\t%s", r.Query, best.Code, best.Name)
}

// FormatJSON formats the result as JSON.
func (r *MatchResult) FormatJSON() (string, error) {
	return marshal(r)
}

// BatchResult contains results for batch processing.
type BatchResult struct {
	Results []*MatchResult
}

// FormatText formats batch results as text (one line per result).
func (b *BatchResult) FormatText() string {
	var lines []string
	for _, r := range b.Results {
		lines = append(lines, r.FormatText())
	}
	return strings.Join(lines, "\n")
}

// FormatJSON formats batch results as JSON array.
func (b *BatchResult) FormatJSON() (string, error) {
	results := b.Results
	if results == nil {
		results = []*MatchResult{}
	}
	return marshal(results)
}

// Letter is one entry of the jump alphabet.
type Letter struct {
	Letter   string `json:"letter"`
	Position int    `json:"position"`
	Code     string `json:"code"`
	Offset   int    `json:"offset"`
}

// FormatError formats an error line for batch output.
func FormatError(query string, err error) string {
	return fmt.Sprintf("%s\t-\t-\tERROR: %s", query, err.Error())
}

// JSON formats any value as indented JSON.
func JSON(v any) (string, error) {
	return marshal(v)
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
