// Package video reads the subtitle streams embedded in a video container so
// they can be merged like ordinary SRT files.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	mergeffmpeg "github.com/mgpai22/mergesub/internal/ffmpeg"
)

var ErrBitmapSubtitle = errors.New("bitmap subtitles cannot be converted to text")

// SubtitleStream is one subtitle stream of a container. Ordinal counts
// subtitle streams only and is what ffmpeg's 0:s:N selector expects.
type SubtitleStream struct {
	Index     int
	Ordinal   int
	Codec     string
	Language  string
	Title     string
	IsBitmap  bool
	IsDefault bool
}

func (s SubtitleStream) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", s.Ordinal, s.Codec)
	if s.Language != "" {
		fmt.Fprintf(&b, " [%s]", s.Language)
	}
	if s.Title != "" {
		fmt.Fprintf(&b, " %q", s.Title)
	}
	if s.IsDefault {
		b.WriteString(" (default)")
	}
	if s.IsBitmap {
		b.WriteString(" (bitmap)")
	}
	return b.String()
}

var bitmapCodecs = map[string]bool{
	"hdmv_pgs_subtitle": true,
	"dvd_subtitle":      true,
	"dvb_subtitle":      true,
	"xsub":              true,
}

// ProbeSubtitles lists the subtitle streams of path with one ffprobe call.
func ProbeSubtitles(ctx context.Context, path string) ([]SubtitleStream, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video file not found: %s", path)
	}

	ffprobePath, err := mergeffmpeg.FFprobePath()
	if err != nil {
		return nil, fmt.Errorf("ffprobe not available: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseProbeJSON(out)
}

// ParseProbeJSON extracts subtitle streams from ffprobe's JSON output.
// Streams of other types are skipped.
func ParseProbeJSON(data []byte) ([]SubtitleStream, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("parse ffprobe JSON: invalid document")
	}

	var streams []SubtitleStream
	gjson.GetBytes(data, "streams").ForEach(func(_, s gjson.Result) bool {
		if s.Get("codec_type").String() != "subtitle" {
			return true
		}
		codec := s.Get("codec_name").String()
		streams = append(streams, SubtitleStream{
			Index:     int(s.Get("index").Int()),
			Ordinal:   len(streams),
			Codec:     codec,
			Language:  s.Get("tags.language").String(),
			Title:     s.Get("tags.title").String(),
			IsBitmap:  bitmapCodecs[codec],
			IsDefault: s.Get("disposition.default").Int() == 1,
		})
		return true
	})
	return streams, nil
}

// ExtractSubtitle converts subtitle stream ordinal of videoPath to SRT at
// outPath.
func ExtractSubtitle(ctx context.Context, videoPath string, ordinal int, outPath string) error {
	streams, err := ProbeSubtitles(ctx, videoPath)
	if err != nil {
		return err
	}
	if ordinal < 0 || ordinal >= len(streams) {
		return fmt.Errorf("%s has %d subtitle streams, no stream %d", videoPath, len(streams), ordinal)
	}
	if streams[ordinal].IsBitmap {
		return fmt.Errorf("stream %d (%s): %w", ordinal, streams[ordinal].Codec, ErrBitmapSubtitle)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := mergeffmpeg.FFmpegPath()
	if err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, extractArgs(videoPath, ordinal, outPath)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func extractArgs(videoPath string, ordinal int, outPath string) []string {
	return ffmpeg.Input(videoPath).
		Output(outPath, ffmpeg.KwArgs{
			"map": fmt.Sprintf("0:s:%d", ordinal),
			"c:s": "srt",
		}).
		OverWriteOutput().
		GetArgs()
}
