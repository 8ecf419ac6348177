package main

import (
	"fmt"

	"github.com/kittenwhisky/yoto-maker/internal/deps"
	"github.com/spf13/cobra"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that yt-dlp, ffmpeg and the JavaScript runtime are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			statuses := deps.Probe(cmd.Context(), deps.Requirements(settings))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatuses(statuses))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required program(s) missing", len(missing))
			}
			return cmd.Context().Err()
		},
	}
}

func renderStatuses(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "ok"
		if !s.Available {
			state = "missing"
		}
		detail := s.Version
		if detail == "" {
			detail = s.Detail
		}
		rows = append(rows, []string{s.Name, s.Command, state, yesNo(!s.Optional), detail})
	}
	return renderTable([]string{"Program", "Command", "Status", "Required", "Version"}, rows, nil)
}
