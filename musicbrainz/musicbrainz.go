package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.senan.xyz/songfetch/clientutil"
)

var ErrNoResults = fmt.Errorf("no results")

type StatusError int

func (se StatusError) Error() string {
	return strconv.Itoa(int(se))
}

type MBClient struct {
	BaseURL   string
	RateLimit time.Duration
	UserAgent string

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (c *MBClient) request(ctx context.Context, r *http.Request, dest any) error {
	c.initOnce.Do(func() {
		c.HTTPClient = clientutil.Wrap(c.HTTPClient, clientutil.Chain(
			clientutil.WithCache(),
			clientutil.WithUserAgent(c.UserAgent),
			clientutil.WithRateLimit(c.RateLimit),
		))
	})

	r = r.WithContext(ctx)
	resp, err := c.HTTPClient.Do(r)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("musicbrainz returned non 2xx: %w", StatusError(resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SearchRecordingAlbum looks up the album name for a song by searching the
// recording index for artist and title. Only the top-ranked recording and
// its first associated release are consulted, matching what Picard-style
// taggers do for a quick lookup. Common titles may well resolve to a
// compilation rather than the original album.
func (c *MBClient) SearchRecordingAlbum(ctx context.Context, artist, title string) (string, error) {
	queryStr := strings.Join([]string{
		field("recording", title),
		field("artist", artist),
	}, " AND ")

	urlV := url.Values{}
	urlV.Set("fmt", "json")
	urlV.Set("limit", "1")
	urlV.Set("query", queryStr)

	url, _ := url.Parse(joinPath(c.BaseURL, "recording"))
	url.RawQuery = urlV.Encode()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)

	var sr struct {
		Recordings []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Releases []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"releases"`
		} `json:"recordings"`
	}
	if err := c.request(ctx, req, &sr); err != nil {
		return "", fmt.Errorf("request recording: %w", err)
	}
	if len(sr.Recordings) == 0 || len(sr.Recordings[0].Releases) == 0 {
		return "", ErrNoResults
	}
	album := sr.Recordings[0].Releases[0].Title
	if album == "" {
		return "", ErrNoResults
	}
	return album, nil
}

// SearchReleaseGroup finds the top-ranked release group MBID for an artist
// and album name pair.
func (c *MBClient) SearchReleaseGroup(ctx context.Context, artist, album string) (string, error) {
	queryStr := strings.Join([]string{
		field("artist", artist),
		field("releasegroup", album),
	}, " AND ")

	urlV := url.Values{}
	urlV.Set("fmt", "json")
	urlV.Set("limit", "1")
	urlV.Set("query", queryStr)

	url, _ := url.Parse(joinPath(c.BaseURL, "release-group"))
	url.RawQuery = urlV.Encode()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)

	var sr struct {
		ReleaseGroups []struct {
			ID    string `json:"id"`
			Score int    `json:"score"`
		} `json:"release-groups"`
	}
	if err := c.request(ctx, req, &sr); err != nil {
		return "", fmt.Errorf("request release group: %w", err)
	}
	if len(sr.ReleaseGroups) == 0 || sr.ReleaseGroups[0].ID == "" {
		return "", ErrNoResults
	}
	return sr.ReleaseGroups[0].ID, nil
}

// https://lucene.apache.org/core/7_7_2/queryparser/org/apache/lucene/queryparser/classic/package-summary.html#Escaping_Special_Characters
var escapeLucene *strings.Replacer

func init() {
	var pairs []string
	for _, c := range []string{`&&`, `||`, `+`, `-`, `!`, `(`, `)`, `{`, `}`, `[`, `]`, `^`, `"`, `~`, `*`, `?`, `:`, `\`, `/`} {
		pairs = append(pairs, c, `\`+c)
	}
	escapeLucene = strings.NewReplacer(pairs...)
}

func field(k string, v any) string {
	vstr := fmt.Sprint(v)
	vstr = escapeLucene.Replace(vstr)
	return fmt.Sprintf("%s:(%v)", k, vstr)
}

func joinPath(base string, p ...string) string {
	r, _ := url.JoinPath(base, p...)
	return r
}
