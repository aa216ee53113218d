package musicbrainz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.senan.xyz/songfetch/clientutil"
)

// https://wiki.musicbrainz.org/Cover_Art_Archive/API
const caaFrontSize = "front-500"

type CAAClient struct {
	BaseURL   string
	RateLimit time.Duration

	initOnce   sync.Once
	HTTPClient *http.Client
}

// GetReleaseGroupFront fetches the front cover image for a release group at
// the 500px size tier.
func (c *CAAClient) GetReleaseGroupFront(ctx context.Context, releaseGroupMBID string) ([]byte, error) {
	c.initOnce.Do(func() {
		c.HTTPClient = clientutil.Wrap(c.HTTPClient, clientutil.Chain(
			clientutil.WithRateLimit(c.RateLimit),
		))
	})

	url := joinPath(c.BaseURL, "release-group", releaseGroupMBID, caaFrontSize)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("make caa request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("caa returned non 2xx: %w", StatusError(resp.StatusCode))
	}

	cover, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return cover, nil
}
