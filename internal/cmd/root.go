package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "movie-tidy [source]",
	Short: "Rename downloaded movies and embed their subtitles",
	Long: `movie-tidy turns a folder of downloaded movies into canonically named files.

Every top level entry of the source folder (default: the current directory) is
processed on its own. Loose video files are renamed after a title lookup. Movie
folders are reduced to their largest video; external .srt subtitles are merged
into .mp4 and .mkv videos that carry no subtitles yet. Results are written as
"<Title> (<Year>).<ext>" into the destination folder.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTidy,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	destPath     string
	deleteSource bool
	providerFlag string
	verbose      bool
)

func init() {
	rootCmd.Flags().StringVarP(&destPath, "dest", "d", "", "Destination folder (default: next to each source)")
	rootCmd.Flags().BoolVar(&deleteSource, "delete-source", false, "Remove source files and folders after they were processed")
	rootCmd.Flags().StringVarP(&providerFlag, "provider", "p", "", "Title lookup provider: tmdb or omdb (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
