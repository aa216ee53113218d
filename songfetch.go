package songfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.senan.xyz/songfetch/coverart"
	"go.senan.xyz/songfetch/flactags"
	"go.senan.xyz/songfetch/lyrics"
)

var (
	ErrInvalidRequest = errors.New("artist and title required")
	ErrAcquire        = errors.New("acquire failed")
)

// SongRequest identifies one track to acquire and enrich. SourceURL is only
// present for manually entered songs, otherwise the acquirer derives a
// search query from artist and title.
type SongRequest struct {
	Artist    string
	Title     string
	SourceURL string
}

func (r SongRequest) String() string {
	return r.Artist + " - " + r.Title
}

type Acquirer interface {
	Acquire(ctx context.Context, sourceURL, artist, title string) (string, error)
}

type AlbumSource interface {
	SearchRecordingAlbum(ctx context.Context, artist, title string) (string, error)
}

type Runner struct {
	Acquirer Acquirer
	Lyrics   lyrics.Source
	Albums   AlbumSource
	Covers   coverart.Source

	FailureLogPath string

	embed func(path string, m flactags.Metadata) error // replaced while testing
}

// ProcessSong runs one track through the pipeline. Only a validation or
// acquisition problem is an error, a failed lyrics, album, or cover lookup
// just leaves that field out, and an embedding problem leaves the file with
// whatever was set before it. The batch level treats all of those as
// success.
func (r *Runner) ProcessSong(ctx context.Context, req SongRequest) error {
	if req.Artist == "" || req.Title == "" {
		return fmt.Errorf("%w: %q", ErrInvalidRequest, req.String())
	}

	path, err := r.Acquirer.Acquire(ctx, req.SourceURL, req.Artist, req.Title)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAcquire, err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: missing output file %q", ErrAcquire, path)
	}

	m := flactags.Metadata{Artist: req.Artist, Title: req.Title}

	m.Lyrics, err = r.Lyrics.Search(ctx, req.Artist, req.Title)
	if err != nil {
		slog.WarnContext(ctx, "could not fetch lyrics", "song", req.String(), "err", err)
	}

	m.Album, err = r.Albums.SearchRecordingAlbum(ctx, req.Artist, req.Title)
	if err != nil {
		slog.WarnContext(ctx, "could not resolve album", "song", req.String(), "err", err)
	}

	// without an album name there is nothing to search cover sources for
	if m.Album != "" {
		m.Cover, err = r.Covers.Fetch(ctx, req.Artist, m.Album)
		if err != nil {
			slog.WarnContext(ctx, "could not fetch cover art", "song", req.String(), "err", err)
		}
	}

	slog.InfoContext(ctx, "embedding metadata", "song", req.String())

	embed := r.embed
	if embed == nil {
		embed = flactags.Embed
	}
	if err := embed(path, m); err != nil {
		slog.WarnContext(ctx, "could not embed metadata", "song", req.String(), "err", err)
	}
	return nil
}

// RequestSource produces the next song to process, io.EOF when exhausted.
type RequestSource interface {
	Next() (SongRequest, error)
}

type BatchResult struct {
	Processed int
	Failures  []string
}

// ProcessBatch drains src through ProcessSong one request at a time.
// Acquisition failures are collected and, at the end of input, written to
// FailureLogPath. Entries missing artist or title are skipped with a
// notice. Only a source error or cancellation stops the batch early.
func (r *Runner) ProcessBatch(ctx context.Context, src RequestSource) (*BatchResult, error) {
	var res BatchResult
	for {
		req, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &res, fmt.Errorf("next request: %w", err)
		}
		if req.Artist == "" || req.Title == "" {
			slog.InfoContext(ctx, "skipping entry with missing artist or title", "song", req.String())
			continue
		}

		slog.InfoContext(ctx, "starting download", "song", req.String())

		switch err := r.ProcessSong(ctx, req); {
		case errors.Is(err, ErrAcquire):
			slog.ErrorContext(ctx, "download failed", "song", req.String(), "err", err)
			res.Failures = append(res.Failures, req.String())
		case err != nil:
			return &res, err
		default:
			res.Processed++
		}

		if err := ctx.Err(); err != nil {
			return &res, err
		}
	}

	if r.FailureLogPath != "" && len(res.Failures) > 0 {
		if err := WriteFailureLog(r.FailureLogPath, res.Failures); err != nil {
			return &res, fmt.Errorf("write failure log: %w", err)
		}
	}
	return &res, nil
}

// WriteFailureLog overwrites path with one failed song per line.
func WriteFailureLog(path string, failures []string) error {
	var buff strings.Builder
	for _, f := range failures {
		buff.WriteString(f)
		buff.WriteString("\n")
	}
	return os.WriteFile(path, []byte(buff.String()), 0o666)
}
