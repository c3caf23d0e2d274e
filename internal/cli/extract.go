package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/mergesub/internal/video"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle stream as SRT",
	Long: `Convert one text subtitle stream of a video container to an SRT file
that can be merged with other tracks.

Streams are numbered among subtitle streams only, starting at 0; list them
with "mergesub streams". Bitmap subtitles (PGS, VobSub) cannot be converted.

Examples:
  mergesub extract movie.mkv
  mergesub extract movie.mkv -s 1 -o movie.en.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		IntP("stream", "s", 0, "Subtitle stream number (0 = first subtitle stream)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	ordinal, _ := cmd.Flags().GetInt("stream")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	if ordinal < 0 {
		return fmt.Errorf("stream number must not be negative, got %d", ordinal)
	}
	if outputPath == "" {
		outputPath = defaultExtractPath(videoPath, ordinal, language)
	}

	logger.Infow("Extracting subtitle stream",
		"video", videoPath,
		"stream", ordinal,
		"output", outputPath,
	)

	ctx := context.Background()
	if err := video.ExtractSubtitle(ctx, videoPath, ordinal, outputPath); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles extracted successfully: %s\n", absOutput)

	return nil
}

// defaultExtractPath names the output after the video: movie.en.srt when
// a language is given, movie.s1.srt otherwise.
func defaultExtractPath(videoPath string, ordinal int, language string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	if language != "" {
		return fmt.Sprintf("%s.%s.srt", base, language)
	}
	return fmt.Sprintf("%s.s%d.srt", base, ordinal)
}
