package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/command"
)

// Output formats of the parse command.
const (
	outputJSON = "json"
	outputText = "text"
)

func newParseCmd() *cobra.Command {
	var (
		now    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Show the command a message parses to",
		Long: `Parse a chat message and print the command it resolves to, including the
event that would be created or the window that would be listed. The calendar
is not contacted, so no configuration is needed.`,
		Example: `  calbot parse "明日10時 会議"
  calbot parse --now 2025-12-31T20:00:00+09:00 "1/5 終日 新年会"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if now != "" {
				t, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("invalid --now %q: expected RFC3339", now)
				}
				at = t
			}
			return runParse(cmd.OutOrStdout(), strings.Join(args, " "), at, output)
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "Interpretation moment in RFC3339 (default: current time)")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or text")

	return cmd
}

func runParse(w io.Writer, text string, now time.Time, output string) error {
	now = command.Moment(now)
	e := assistant.Explain(command.Parse(strings.TrimSpace(text), now), now)

	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(e)
	case outputText:
		_, err := fmt.Fprintln(w, describe(e))
		return err
	default:
		return fmt.Errorf("invalid output format %q, must be one of: %s, %s", output, outputJSON, outputText)
	}
}

// describe renders an explanation as one line.
func describe(e assistant.Explanation) string {
	parts := []string{e.Kind}
	switch {
	case e.Event != nil:
		parts = append(parts, e.Event.Start, e.Event.End, fmt.Sprintf("%q", e.Event.Summary))
	case e.Window != nil:
		parts = append(parts, e.Period, e.Window.Start, e.Window.End)
	case e.Hour != nil:
		parts = append(parts, fmt.Sprintf("%s %02d時", e.Date, *e.Hour), fmt.Sprintf("%q", e.Title))
	case e.Text != "":
		parts = append(parts, fmt.Sprintf("%q", e.Text))
	}
	return strings.Join(parts, " ")
}
