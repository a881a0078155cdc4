package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hightemp/countrypick/internal/output"
	"github.com/hightemp/countrypick/internal/tui"
)

var (
	pickTitle       string
	pickPlaceholder string
	pickNoFilter    bool
	pickNoClose     bool
	pickNoAutoFocus bool
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a country interactively (default command)",
	Long: `Opens the interactive picker on the terminal and prints the chosen
country on stdout. Type to search, alt+<letter> jumps to the first country
starting with that letter, enter selects, esc cancels.

Examples:
  countrypick pick --placeholder "Country"
  countrypick pick --no-filter --no-close`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVar(&pickTitle, "title", "", "picker title")
	pickCmd.Flags().StringVar(&pickPlaceholder, "placeholder", "Filter", "filter input placeholder")
	pickCmd.Flags().BoolVar(&pickNoFilter, "no-filter", false, "hide the filter input; letters jump directly")
	pickCmd.Flags().BoolVar(&pickNoClose, "no-close", false, "ignore esc; only ctrl+c cancels")
	pickCmd.Flags().BoolVar(&pickNoAutoFocus, "no-autofocus", false, "start with the filter unfocused; / focuses it")
}

func runPick(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stderr.Fd())) {
		return fmt.Errorf("%w: the picker needs a terminal; use 'search', 'select' or 'batch' in scripts", errInvalidInput)
	}

	a, err := loadApp(cmd.Context(), globals, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	session, err := a.newSession()
	if err != nil {
		return err
	}

	model := tui.New(session, tui.DefaultStyles(), pickOptions(a))

	program := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithInput(os.Stdin),
		tea.WithOutput(os.Stderr),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return errCancelled
		}
		return fmt.Errorf("picker: %w", err)
	}

	res, ok := model.Outcome()
	if !ok {
		return errCancelled
	}
	a.logger.Debug("picked", "code", res.Code, "session", session.ID())
	return writeSelection(cmd.OutOrStdout(), selectionOutput(res), a.json)
}

func pickOptions(a *app) tui.Options {
	opts := tui.DefaultOptions()
	if pickTitle != "" {
		opts.Title = pickTitle
	}
	opts.Placeholder = pickPlaceholder
	opts.Height = a.cfg.UI.Height
	opts.RowHeight = a.cfg.UI.RowHeight
	opts.ShowFlags = a.showFlags()
	opts.Filterable = !pickNoFilter
	opts.Closeable = !pickNoClose
	opts.AutoFocus = !pickNoAutoFocus
	return opts
}

func writeSelection(w io.Writer, r *output.SelectionResult, jsonOutput bool) error {
	if jsonOutput {
		jsonStr, err := r.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonStr)
		return nil
	}
	fmt.Fprintln(w, r.FormatText())
	return nil
}
