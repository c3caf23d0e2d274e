package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/mergesub/internal/config"
	"github.com/mgpai22/mergesub/internal/pipeline"
)

// parseEncodingArg splits an ENCODING,FILE pair. The file name may itself
// contain commas.
func parseEncodingArg(arg string) (pipeline.TrackFile, error) {
	enc, path, ok := strings.Cut(arg, ",")
	enc = strings.TrimSpace(enc)
	if !ok || enc == "" || path == "" {
		return pipeline.TrackFile{}, fmt.Errorf("invalid --encoding %q: expected ENCODING,FILE", arg)
	}
	return pipeline.TrackFile{Path: path, Encoding: enc}, nil
}

// parseVideoArg splits VIDEO:N into the container path and the subtitle
// stream ordinal. Without a numeric suffix the first stream is used.
func parseVideoArg(arg string) (string, int, error) {
	if arg == "" {
		return "", 0, fmt.Errorf("invalid --video: empty value")
	}
	i := strings.LastIndex(arg, ":")
	if i <= 0 {
		return arg, 0, nil
	}
	n, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		return arg, 0, nil
	}
	if n < 0 {
		return "", 0, fmt.Errorf("invalid --video %q: stream number must not be negative", arg)
	}
	return arg[:i], n, nil
}

// buildConfig starts from defaults or the --config file and applies the
// layout flags the user actually set.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("lines") {
		cfg.LinesPerSubtitle, _ = flags.GetInt("lines")
	}
	if flags.Changed("no-expand") {
		noExpand, _ := flags.GetBool("no-expand")
		cfg.MergeExpandLines = !noExpand
	}
	if flags.Changed("placeholder") {
		cfg.BlankPlaceholder, _ = flags.GetString("placeholder")
	}
	if flags.Changed("separator") {
		cfg.LineSeparator, _ = flags.GetString("separator")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
