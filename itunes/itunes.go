// itunes implements a small part of the iTunes Search API.
// https://developer.apple.com/library/archive/documentation/AudioVideo/Conceptual/iTuneSearchAPI/
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.senan.xyz/songfetch/clientutil"
)

var ErrNoResults = fmt.Errorf("no results")

// artwork URLs come back pointing at a 100px thumbnail. the size token can
// be swapped for a bigger render of the same image.
const (
	thumbSizeToken   = "100x100bb.jpg"
	artworkSizeToken = "600x600bb.jpg"
)

type Client struct {
	BaseURL   string
	RateLimit time.Duration

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (c *Client) request(ctx context.Context, url string) (*http.Response, error) {
	c.initOnce.Do(func() {
		c.HTTPClient = clientutil.Wrap(c.HTTPClient, clientutil.Chain(
			clientutil.WithRateLimit(c.RateLimit),
		))
	})

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("make itunes request: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		resp.Body.Close()
		return nil, fmt.Errorf("itunes returned non 2xx: %d", resp.StatusCode)
	}
	return resp, nil
}

// SearchAlbumArt searches the album catalog for "artist album" and returns
// the first result's artwork at the 600px tier.
func (c *Client) SearchAlbumArt(ctx context.Context, artist, album string) ([]byte, error) {
	urlV := url.Values{}
	urlV.Set("term", artist+" "+album)
	urlV.Set("entity", "album")
	urlV.Set("limit", "1")

	searchURL, _ := url.Parse(c.BaseURL)
	searchURL = searchURL.JoinPath("search")
	searchURL.RawQuery = urlV.Encode()

	resp, err := c.request(ctx, searchURL.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr struct {
		ResultCount int `json:"resultCount"`
		Results     []struct {
			CollectionName string `json:"collectionName"`
			ArtworkURL100  string `json:"artworkUrl100"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if sr.ResultCount == 0 || len(sr.Results) == 0 || sr.Results[0].ArtworkURL100 == "" {
		return nil, ErrNoResults
	}

	artworkURL := strings.Replace(sr.Results[0].ArtworkURL100, thumbSizeToken, artworkSizeToken, 1)

	imgResp, err := c.request(ctx, artworkURL)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: %w", err)
	}
	defer imgResp.Body.Close()

	artwork, err := io.ReadAll(imgResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read artwork: %w", err)
	}
	return artwork, nil
}
