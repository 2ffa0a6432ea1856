package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/instrumentation"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <message>",
		Short: "Execute one message against the calendar",
		Long: `Run a chat message through the assistant exactly like a LINE message and
print the reply. Creating and deleting events changes the configured calendar.

Requires CALENDAR_ID and CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS.`,
		Example: `  calbot run "今週の予定"
  calbot run "明日10時 会議"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			asst, err := newAssistant(cmd.Context(), cfg, nil, nil)
			if err != nil {
				return err
			}

			reply := asst.Handle(cmd.Context(), assistant.Message{
				Text:   strings.Join(args, " "),
				Source: instrumentation.SourceCLI,
			})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}
}
