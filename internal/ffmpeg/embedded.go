//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
)

// Bundles dropped into assets/ are compiled in with -tags ffmpeg_embedded.
//
//go:embed assets/*.zip
var bundles embed.FS

func openEmbeddedAsset(name string) (io.ReadCloser, bool, error) {
	f, err := bundles.Open(path.Join("assets", name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("open embedded ffmpeg bundle %s: %w", name, err)
	}
	return f, true, nil
}
