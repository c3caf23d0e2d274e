package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/mergesub/internal/charset"
	"github.com/mgpai22/mergesub/internal/config"
	"github.com/mgpai22/mergesub/internal/pipeline"
	"github.com/mgpai22/mergesub/internal/video"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags] FILE...",
	Short: "Merge SRT tracks into one stacked subtitle file",
	Long: `Merge two or more SRT files into one. The first track is aligned to
the bottom of its lines, every other track to the top.

Input encodings are detected automatically (us-ascii, utf-8, gbk, big5,
utf-16). Force one with -e ENCODING,FILE when detection gets it wrong;
tracks given with -e come first, in flag order, followed by FILE arguments.

Examples:
  mergesub merge movie.zh.srt movie.en.srt -o movie.srt
  mergesub merge -e big5,movie.tw.srt movie.en.srt
  mergesub merge movie.en.srt --video movie.mkv:1 -n 3
  mergesub merge movie.zh.srt --translate-to english -l chinese`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().
		StringArrayP("encoding", "e", nil, "Force the encoding of a track as ENCODING,FILE (repeatable)")
	mergeCmd.Flags().
		StringP("output-encoding", "E", "", "Output encoding (default: from the locale, else utf-8)")
	mergeCmd.Flags().
		IntP("lines", "n", config.DefaultLinesPerSubtitle, "Lines per track in every merged caption")
	mergeCmd.Flags().
		Bool("no-expand", false, "Keep captions longer than --lines instead of joining their lines")
	mergeCmd.Flags().
		String("placeholder", config.IdeographicSpace, "Text of an empty line")
	mergeCmd.Flags().
		String("separator", config.DefaultLineSeparator, "Separator between two joined lines")
	mergeCmd.Flags().
		String("config", "", "YAML file with layout settings")
	mergeCmd.Flags().
		StringArray("video", nil, "Add subtitle stream N of a video as a track, as VIDEO:N (repeatable)")

	addTranslateFlags(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	encodingArgs, _ := cmd.Flags().GetStringArray("encoding")
	videoArgs, _ := cmd.Flags().GetStringArray("video")
	outputEncoding, _ := cmd.Flags().GetString("output-encoding")
	outputPath, _ := cmd.Flags().GetString("output")

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	var files []pipeline.TrackFile
	for _, arg := range encodingArgs {
		f, err := parseEncodingArg(arg)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	for _, arg := range args {
		files = append(files, pipeline.TrackFile{Path: arg})
	}

	if len(videoArgs) > 0 {
		tmpDir, err := os.MkdirTemp("", "mergesub-*")
		if err != nil {
			return fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()

		for i, arg := range videoArgs {
			f, err := extractTrack(ctx, arg, filepath.Join(tmpDir, fmt.Sprintf("stream%d.srt", i)))
			if err != nil {
				return err
			}
			files = append(files, f)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("at least one subtitle track is required")
	}

	enc, err := charset.OutputEncoding(outputEncoding)
	if err != nil {
		return fmt.Errorf("invalid output encoding: %w", err)
	}
	cfg = pipeline.ForOutput(cfg, enc, logger)

	logger.Infow("Merging subtitles",
		"tracks", len(files),
		"lines_per_track", cfg.LinesPerSubtitle,
		"output_encoding", enc.Name,
	)

	sources, err := pipeline.Load(files, logger)
	if err != nil {
		return err
	}

	sources, err = addTranslatedTrack(ctx, cmd, sources)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	res, err := pipeline.Run(cfg, sources, &buf, logger)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	data, err := charset.Encode(enc, buf.String())
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, data); err != nil {
		return err
	}

	logger.Infow("Merge complete",
		"tracks", res.Tracks,
		"blocks", res.Blocks,
		"dropped", res.Rejected,
		"repaired", res.Warnings,
		"output", outputName(outputPath),
	)
	return nil
}

// extractTrack pulls one embedded stream out of a container as SRT.
func extractTrack(ctx context.Context, arg, outPath string) (pipeline.TrackFile, error) {
	videoPath, ordinal, err := parseVideoArg(arg)
	if err != nil {
		return pipeline.TrackFile{}, err
	}

	logger.Infow("Extracting subtitle stream",
		"video", videoPath,
		"stream", ordinal,
	)
	if err := video.ExtractSubtitle(ctx, videoPath, ordinal, outPath); err != nil {
		return pipeline.TrackFile{}, fmt.Errorf("failed to extract stream %d of %s: %w", ordinal, videoPath, err)
	}
	// ffmpeg always writes UTF-8
	return pipeline.TrackFile{Path: outPath, Encoding: "utf-8"}, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
