package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mgpai22/mergesub/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mergesub",
	Short: "Merge several SRT subtitle tracks into one stacked track",
	Long: `mergesub combines subtitle tracks, typically the same film in two
languages, into a single SRT file that shows every track at once.

Each track gets a fixed number of lines in every merged caption, so the
tracks never jump around on screen. Output timing is snapped to the 10ms
grid that common players use.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)

		// API keys may live in a .env file next to the subtitles
		if err := godotenv.Load(); err == nil {
			logger.Debugw("Loaded environment from .env")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language of the first track (e.g., zh, en), used as translation source")
}
