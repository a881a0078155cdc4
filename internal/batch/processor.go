// Package batch resolves country queries read line by line from a reader.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hightemp/countrypick/internal/output"
	"github.com/hightemp/countrypick/internal/selection"
)

// DefaultMaxMatches caps the matches kept per query.
const DefaultMaxMatches = 5

// Processor resolves queries against a shared search index.
type Processor struct {
	index       *selection.SearchIndex
	names       map[string]string
	concurrency int
	maxMatches  int
	logger      *slog.Logger
}

// NewProcessor creates a batch processor. The index is only read, so one
// index serves every worker.
func NewProcessor(index *selection.SearchIndex, concurrency int, logger *slog.Logger) *Processor {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	names := make(map[string]string, index.Len())
	for _, e := range index.Entries() {
		names[e.Code] = e.Name
	}
	return &Processor{
		index:       index,
		names:       names,
		concurrency: concurrency,
		maxMatches:  DefaultMaxMatches,
		logger:      logger,
	}
}

// SetMaxMatches sets how many ranked matches each result keeps. Zero keeps all.
func (p *Processor) SetMaxMatches(n int) {
	p.maxMatches = n
}

// ProcessInput reads queries from input and streams one result per line.
func (p *Processor) ProcessInput(ctx context.Context, r io.Reader, w io.Writer, jsonOutput bool) error {
	scanner := bufio.NewScanner(r)
	var results []*output.MatchResult

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result := p.Resolve(line)
		if jsonOutput {
			results = append(results, result)
			continue
		}
		fmt.Fprintln(w, result.FormatText())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(w, results)
	}
	return nil
}

// ProcessInputConcurrent reads every query first, resolves them on a
// bounded worker pool and writes the results in input order.
func (p *Processor) ProcessInputConcurrent(ctx context.Context, r io.Reader, w io.Writer, jsonOutput bool) error {
	scanner := bufio.NewScanner(r)
	var lines []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	results := make([]*output.MatchResult, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Resolve(line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.logger.Debug("batch resolved", "queries", len(lines), "workers", p.concurrency)

	if jsonOutput {
		return writeJSON(w, results)
	}
	for _, result := range results {
		fmt.Fprintln(w, result.FormatText())
	}
	return nil
}

// Resolve ranks the index entries against query.
func (p *Processor) Resolve(query string) *output.MatchResult {
	codes := p.index.Search(query)
	if p.maxMatches > 0 && len(codes) > p.maxMatches {
		codes = codes[:p.maxMatches]
	}

	result := &output.MatchResult{Query: query, Matches: make([]output.Match, len(codes))}
	for i, code := range codes {
		result.Matches[i] = output.Match{Code: code, Name: p.names[code]}
	}
	return result
}

func writeJSON(w io.Writer, results []*output.MatchResult) error {
	batch := &output.BatchResult{Results: results}
	jsonStr, err := batch.FormatJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, jsonStr)
	return err
}
