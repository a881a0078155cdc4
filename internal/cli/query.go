package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hightemp/countrypick/internal/config"
	"github.com/hightemp/countrypick/internal/output"
	"github.com/hightemp/countrypick/internal/selection"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Rank countries by fuzzy match of their display name",
	Long: `Searches the localized display names of the offered countries and prints
the matches best first. Typos are tolerated.

Examples:
  countrypick search germny
  countrypick search --locale fr allemagne
  countrypick search united --exclude US --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), globals, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runSearch(cmd.OutOrStdout(), a, strings.Join(args, " "), searchLimit)
	},
}

var lettersCmd = &cobra.Command{
	Use:   "letters",
	Short: "Show the jump alphabet with positions and scroll offsets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), globals, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runLetters(cmd.OutOrStdout(), a)
	},
}

var selectCmd = &cobra.Command{
	Use:   "select CODE",
	Short: "Select a country by ISO code",
	Long: `Selects a country by its ISO 3166-1 alpha-2 code and prints it in the
active locale. Codes that are excluded or unknown exit with status 4 and a
list of close matches.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), globals, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runSelect(cmd.OutOrStdout(), a, args[0])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the offered countries in catalog order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), globals, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runList(cmd.OutOrStdout(), a)
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum matches to print (0 for all)")
}

func runSearch(w io.Writer, a *app, query string, limit int) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}
	session.SetFilterText(query)

	codes := session.Results()
	if limit > 0 && len(codes) > limit {
		codes = codes[:limit]
	}
	result := &output.MatchResult{Query: query, Matches: make([]output.Match, len(codes))}
	for i, code := range codes {
		result.Matches[i] = output.Match{Code: code, Name: session.Name(code)}
	}

	if a.json {
		jsonStr, err := result.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonStr)
	} else if len(codes) > 0 {
		rows := make([][]string, len(result.Matches))
		for i, m := range result.Matches {
			rows[i] = []string{m.Code, m.Name}
		}
		output.WriteTable(w, []string{"CODE", "NAME"}, rows)
	}

	if len(codes) == 0 {
		return fmt.Errorf("%w: no country matches %q", errNotFound, query)
	}
	return nil
}

func runLetters(w io.Writer, a *app) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}

	li := session.LetterIndex()
	candidates := session.Candidates()
	letters := make([]output.Letter, 0, len(li.Letters))
	for _, l := range li.Letters {
		pos, _ := li.Position(l)
		letters = append(letters, output.Letter{
			Letter:   l,
			Position: pos,
			Code:     candidates[pos],
			Offset:   selection.ScrollOffset(pos, len(candidates), session.Geometry()),
		})
	}

	if a.json {
		jsonStr, err := output.JSON(letters)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonStr)
		return nil
	}

	rows := make([][]string, len(letters))
	for i, l := range letters {
		rows[i] = []string{l.Letter, strconv.Itoa(l.Position), l.Code, strconv.Itoa(l.Offset)}
	}
	output.WriteTable(w, []string{"LETTER", "POSITION", "CODE", "OFFSET"}, rows)
	return nil
}

func runSelect(w io.Writer, a *app, code string) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}

	res, err := session.SelectCode(code)
	if errors.Is(err, selection.ErrInvalidSelection) {
		if hint := suggestions(a, session, code); hint != "" {
			return fmt.Errorf("%w (did you mean %s?)", err, hint)
		}
		return err
	}
	if err != nil {
		return err
	}
	return writeSelection(w, selectionOutput(res), a.json)
}

// suggestions lists close candidates for a rejected code.
func suggestions(a *app, session *selection.Session, input string) string {
	offered := make(map[string]bool)
	for _, c := range session.Candidates() {
		offered[c] = true
	}

	var hints []string
	for _, c := range a.catalog.Suggest(input, a.catalog.Len()) {
		if offered[c] {
			hints = append(hints, fmt.Sprintf("%s (%s)", c, session.Name(c)))
		}
		if len(hints) == config.DefaultSuggestions {
			break
		}
	}
	return strings.Join(hints, ", ")
}

func runList(w io.Writer, a *app) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}

	candidates := session.Candidates()
	if a.json {
		list := make([]output.Match, len(candidates))
		for i, code := range candidates {
			list[i] = output.Match{Code: code, Name: session.Name(code)}
		}
		jsonStr, err := output.JSON(list)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonStr)
		return nil
	}

	header := []string{"CODE", "NAME"}
	if a.showFlags() {
		header = append(header, "FLAG")
	}
	rows := make([][]string, len(candidates))
	for i, code := range candidates {
		rows[i] = []string{code, session.Name(code)}
		if a.showFlags() {
			rows[i] = append(rows[i], session.Flag(code))
		}
	}
	output.WriteTable(w, header, rows)
	return nil
}
