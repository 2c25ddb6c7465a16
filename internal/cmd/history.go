package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Digital-Shane/movie-tidy/internal/log"
	"github.com/Digital-Shane/movie-tidy/internal/theme"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent movie-tidy runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := log.GetSessionSummaries(historyLimit)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), theme.Default(), summaries)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to list (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func printHistory(out io.Writer, th theme.Theme, summaries []log.SessionSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(out, th.MutedStyle().Render("No runs recorded yet."))
		return
	}

	for _, s := range summaries {
		meta := s.Session.Metadata
		command := strings.Join(meta.CommandArgs, " ")

		status := th.BadgeStyle(theme.BadgeSuccess).Render("ok")
		if meta.FailedOps > 0 {
			status = th.BadgeStyle(theme.BadgeWarning).Render(fmt.Sprintf("%d failed", meta.FailedOps))
		}

		fmt.Fprintf(out, "%s  %s  %s\n", th.HeaderStyle().Render(meta.SessionID), th.MutedStyle().Render(s.RelativeTime), command)
		fmt.Fprintf(out, "   %s %d operations in %s\n", status, meta.TotalOps, th.PathStyle().Render(meta.WorkingDir))
	}
}
