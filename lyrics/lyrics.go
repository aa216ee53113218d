package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.senan.xyz/songfetch/clientutil"
)

var ErrLyricsNotFound = errors.New("lyrics not found")

type Source interface {
	Search(ctx context.Context, artist, song string) (string, error)
}

// ChainSource tries each source in order, first non-empty result wins.
type ChainSource []Source

func (cs ChainSource) Search(ctx context.Context, artist, song string) (string, error) {
	for _, src := range cs {
		lyricData, err := src.Search(ctx, artist, song)
		if err != nil && !errors.Is(err, ErrLyricsNotFound) {
			return "", err
		}
		if lyricData != "" {
			return lyricData, nil
		}
	}
	return "", ErrLyricsNotFound
}

// LyricsOVH looks up lyrics by artist and title on api.lyrics.ovh.
type LyricsOVH struct {
	BaseURL   string
	RateLimit time.Duration

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (l *LyricsOVH) Search(ctx context.Context, artist, song string) (string, error) {
	l.initOnce.Do(func() {
		l.HTTPClient = clientutil.Wrap(l.HTTPClient, clientutil.Chain(
			clientutil.WithRateLimit(l.RateLimit),
		))
	})

	url, _ := url.Parse(l.BaseURL)
	url = url.JoinPath(artist, song)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("req lyrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", ErrLyricsNotFound
	}

	var payload struct {
		Lyrics string `json:"lyrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode lyrics: %w", err)
	}
	if payload.Lyrics == "" {
		return "", ErrLyricsNotFound
	}
	return payload.Lyrics, nil
}

// LRCLib looks up plain lyrics on lrclib.net.
type LRCLib struct {
	BaseURL   string
	RateLimit time.Duration

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (l *LRCLib) Search(ctx context.Context, artist, song string) (string, error) {
	l.initOnce.Do(func() {
		l.HTTPClient = clientutil.Wrap(l.HTTPClient, clientutil.Chain(
			clientutil.WithRateLimit(l.RateLimit),
		))
	})

	urlV := url.Values{}
	urlV.Set("artist_name", artist)
	urlV.Set("track_name", song)

	url, _ := url.Parse(l.BaseURL)
	url = url.JoinPath("api", "get")
	url.RawQuery = urlV.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("req lyrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", ErrLyricsNotFound
	}

	var payload struct {
		PlainLyrics  string `json:"plainLyrics"`
		SyncedLyrics string `json:"syncedLyrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode lyrics: %w", err)
	}
	if payload.PlainLyrics == "" {
		return "", ErrLyricsNotFound
	}
	return payload.PlainLyrics, nil
}
