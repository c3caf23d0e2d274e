package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/mergesub/internal/video"
)

var streamsCmd = &cobra.Command{
	Use:   "streams [video_file]",
	Short: "List the subtitle streams of a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		streams, err := video.ProbeSubtitles(context.Background(), args[0])
		if err != nil {
			return err
		}
		if len(streams) == 0 {
			fmt.Printf("%s has no subtitle streams\n", args[0])
			return nil
		}
		for _, s := range streams {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streamsCmd)
}
