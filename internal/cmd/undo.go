package cmd

import (
	"fmt"
	"io"

	"github.com/Digital-Shane/movie-tidy/internal/log"
	"github.com/Digital-Shane/movie-tidy/internal/theme"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the file operations of the most recent run",
	Long: `Revert the file operations of the most recent run.

Renamed files are moved back, copies and muxed outputs are removed while their
source still exists. Deleted sources cannot be restored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, path, err := log.FindLatestSession()
		if err != nil {
			return err
		}
		return undoSession(cmd.OutOrStdout(), theme.Default(), session, path)
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func undoSession(out io.Writer, th theme.Theme, session *log.LogSession, path string) error {
	fmt.Fprintf(out, "%s Undoing run %s (%s)\n", th.Icon("undo"), session.Metadata.SessionID, th.MutedStyle().Render(path))

	successful, failed, errs := log.UndoSession(session)
	for _, err := range errs {
		fmt.Fprintf(out, "   %s %s\n", th.Icon("error"), th.ErrorStyle().Render(err.Error()))
	}

	fmt.Fprintf(out, "%s %d reverted, %d failed\n", th.Icon("stats"), successful, failed)
	if failed > 0 {
		return fmt.Errorf("%d operations could not be reverted", failed)
	}
	return nil
}
