//go:build !ffmpeg_embedded

package ffmpeg

import "io"

// Without the ffmpeg_embedded tag no bundle ships inside the binary.
func openEmbeddedAsset(string) (io.ReadCloser, bool, error) {
	return nil, false, nil
}
