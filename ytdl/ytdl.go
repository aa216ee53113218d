// ytdl wraps yt-dlp to acquire single tracks as lossless audio files.
package ytdl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"go.senan.xyz/songfetch/fileutil"
)

var ErrNoOutput = errors.New("downloader reported success but output file is missing")

type Status string

const (
	StatusDownloading Status = "downloading"
	StatusFinished    Status = "finished"
)

type Progress struct {
	Name     string
	Status   Status
	Fraction float64
	Elapsed  time.Duration
}

type ProgressFunc func(Progress)

const extTemplate = ".%(ext)s"

type Downloader struct {
	Dir              string
	AudioFormat      string        // target codec, default flac
	AudioQuality     string        // yt-dlp quality setting, default 0 (best)
	ProgressInterval time.Duration // granularity of OnProgress calls
	OnProgress       ProgressFunc

	run func(ctx context.Context, locator, template string) error // replaced while testing
}

func (d *Downloader) format() string {
	if d.AudioFormat == "" {
		return "flac"
	}
	return d.AudioFormat
}

func (d *Downloader) quality() string {
	if d.AudioQuality == "" {
		return "0"
	}
	return d.AudioQuality
}

func (d *Downloader) progressInterval() time.Duration {
	if d.ProgressInterval == 0 {
		return 250 * time.Millisecond
	}
	return d.ProgressInterval
}

// Locator returns the yt-dlp target for a request. An explicit source URL is
// used as-is, otherwise the first match of a video platform search for
// artist and title.
func Locator(sourceURL, artist, title string) string {
	if sourceURL != "" {
		return sourceURL
	}
	return fmt.Sprintf("ytsearch1:%s %s", artist, title)
}

// OutputTemplate returns the yt-dlp output template for a track, with
// filesystem-unsafe characters in artist and title substituted.
func OutputTemplate(dir, artist, title string) string {
	name := fmt.Sprintf("%s - %s", fileutil.SafePath(artist), fileutil.SafePath(title))
	return filepath.Join(dir, name+extTemplate)
}

// FinalPath returns where the transcoded file should be once yt-dlp's audio
// post processor has replaced the download's native extension.
func FinalPath(template, format string) string {
	return strings.TrimSuffix(template, extTemplate) + "." + format
}

// Acquire downloads one track and transcodes it to the target codec,
// blocking until the external process finishes or errors. The returned path
// is verified to exist, a claimed success with no file is an error.
func (d *Downloader) Acquire(ctx context.Context, sourceURL, artist, title string) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o777); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}

	template := OutputTemplate(d.Dir, artist, title)
	locator := Locator(sourceURL, artist, title)

	run := d.run
	if run == nil {
		run = d.runYTDLP
	}
	if err := run(ctx, locator, template); err != nil {
		return "", fmt.Errorf("run yt-dlp: %w", err)
	}

	path := FinalPath(template, d.format())
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoOutput, path)
	}
	return path, nil
}

func (d *Downloader) runYTDLP(ctx context.Context, locator, template string) error {
	dl := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(d.format()).
		AudioQuality(d.quality()).
		NoPlaylist().
		NoCacheDir().
		Output(template)

	if d.OnProgress != nil {
		name := strings.TrimSuffix(filepath.Base(template), extTemplate)
		start := time.Now()
		dl.ProgressFunc(d.progressInterval(), func(update ytdlp.ProgressUpdate) {
			d.OnProgress(progressOf(name, start, update))
		})
	}

	_, err := dl.Run(ctx, locator)
	return err
}

func progressOf(name string, start time.Time, update ytdlp.ProgressUpdate) Progress {
	status := StatusDownloading
	if update.Status == ytdlp.ProgressStatusFinished {
		status = StatusFinished
	}

	// the extractor may not know the total size up front. degrade to a
	// denominator of 1 rather than dividing by zero.
	total := update.TotalBytes
	if total == 0 {
		total = max(update.DownloadedBytes, 1)
	}
	fraction := min(float64(update.DownloadedBytes)/float64(total), 1)
	if status == StatusFinished {
		fraction = 1
	}

	elapsed := time.Since(start)
	if !update.Started.IsZero() {
		elapsed = time.Since(update.Started)
	}

	return Progress{Name: name, Status: status, Fraction: fraction, Elapsed: elapsed}
}
