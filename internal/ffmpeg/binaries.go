// Package ffmpeg locates the ffmpeg and ffprobe binaries used to pull
// subtitle streams out of video containers.
package ffmpeg

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	EnvFFmpegPath  = "MERGESUB_FFMPEG_PATH"
	EnvFFprobePath = "MERGESUB_FFPROBE_PATH"

	releaseVersion = "6.1"
	releaseBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

func (p BinaryPaths) complete() bool {
	return p.FFmpeg != "" && p.FFprobe != ""
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves both binaries once per process: environment overrides
// first, then PATH, then a cached or freshly installed bundle.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = ensure()
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func ensure() (BinaryPaths, error) {
	if paths := lookupLocal(); paths.complete() {
		return paths, nil
	}

	assetName, err := assetForPlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return BinaryPaths{}, err
	}

	dir := installDir()
	paths := BinaryPaths{
		FFmpeg:  filepath.Join(dir, "ffmpeg"+executableSuffix()),
		FFprobe: filepath.Join(dir, "ffprobe"+executableSuffix()),
	}
	if binariesExist(paths) {
		return paths, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BinaryPaths{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
	}

	embedded, err := extractEmbedded(assetName, dir)
	if err != nil {
		return BinaryPaths{}, err
	}
	if !embedded {
		if err := downloadAndExtract(assetName, dir); err != nil {
			return BinaryPaths{}, err
		}
	}

	if !binariesExist(paths) {
		return BinaryPaths{}, errors.New("ffmpeg binaries not found after extraction")
	}
	if err := makeExecutable(paths); err != nil {
		return BinaryPaths{}, err
	}
	return paths, nil
}

// lookupLocal fills what it can from the environment and PATH. The result
// may be incomplete.
func lookupLocal() BinaryPaths {
	paths := BinaryPaths{
		FFmpeg:  os.Getenv(EnvFFmpegPath),
		FFprobe: os.Getenv(EnvFFprobePath),
	}
	if paths.FFmpeg == "" {
		if found, err := exec.LookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := exec.LookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}
	return paths
}

func installDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil || cacheDir == "" {
		cacheDir = os.TempDir()
	}
	return filepath.Join(
		cacheDir,
		"mergesub",
		"ffmpeg",
		releaseVersion,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

func assetForPlatform(goos, goarch string) (string, error) {
	var platform string
	switch {
	case goos == "linux" && goarch == "amd64":
		platform = "linux-64"
	case goos == "linux" && goarch == "arm64":
		platform = "linux-arm-64"
	case goos == "darwin" && goarch == "amd64":
		platform = "macos-64"
	case goos == "windows" && goarch == "amd64":
		platform = "win-64"
	default:
		return "", fmt.Errorf("unsupported platform for bundled ffmpeg: %s/%s", goos, goarch)
	}
	return "ffmpeg-" + releaseVersion + "-" + platform + ".zip", nil
}

func downloadAndExtract(assetName, dir string) error {
	url := fmt.Sprintf("%s/v%s/%s", releaseBaseURL, releaseVersion, assetName)
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download ffmpeg bundle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffmpeg bundle: unexpected status %s", resp.Status)
	}

	return extractArchiveFromReader(assetName, resp.Body, dir)
}

func extractEmbedded(assetName, dir string) (bool, error) {
	reader, ok, err := openEmbeddedAsset(assetName)
	if err != nil || !ok {
		return ok, err
	}
	defer func() { _ = reader.Close() }()

	return true, extractArchiveFromReader(assetName, reader, dir)
}

// extractArchiveFromReader spools the bundle to disk since zip needs
// random access.
func extractArchiveFromReader(assetName string, reader io.Reader, dir string) error {
	tmpFile, err := os.CreateTemp("", "mergesub-ffmpeg-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	archivePath := tmpFile.Name()
	defer func() { _ = os.Remove(archivePath) }()

	if _, err := io.Copy(tmpFile, reader); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	if err := extractArchive(archivePath, dir); err != nil {
		return fmt.Errorf("extract %s: %w", assetName, err)
	}
	return nil
}

func extractArchive(archivePath, dir string) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open ffmpeg archive: %w", err)
	}
	defer func() { _ = zipReader.Close() }()

	var found BinaryPaths
	for _, file := range zipReader.File {
		var dest *string
		switch strings.ToLower(filepath.Base(file.Name)) {
		case "ffmpeg", "ffmpeg.exe":
			dest = &found.FFmpeg
		case "ffprobe", "ffprobe.exe":
			dest = &found.FFprobe
		default:
			continue
		}

		base := strings.TrimSuffix(strings.ToLower(filepath.Base(file.Name)), ".exe")
		*dest = filepath.Join(dir, base+executableSuffix())
		if err := extractZipFile(file, *dest); err != nil {
			return err
		}
	}

	if !found.complete() {
		return errors.New("ffmpeg archive missing required binaries")
	}
	return nil
}

func extractZipFile(file *zip.File, dest string) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open ffmpeg archive entry: %w", err)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create ffmpeg output dir: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create ffmpeg binary: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("write ffmpeg binary: %w", err)
	}
	return nil
}

func makeExecutable(paths BinaryPaths) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	for _, p := range []string{paths.FFmpeg, paths.FFprobe} {
		if err := os.Chmod(p, 0o755); err != nil {
			return fmt.Errorf("chmod %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

func binariesExist(paths BinaryPaths) bool {
	return fileExists(paths.FFmpeg) && fileExists(paths.FFprobe)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
