// coverart resolves front cover images for an artist and album pair from
// independent, unreliable sources.
package coverart

import (
	"context"
	"errors"
	"log/slog"

	"go.senan.xyz/songfetch/itunes"
	"go.senan.xyz/songfetch/musicbrainz"
)

var ErrCoverNotFound = errors.New("cover not found")

type Source interface {
	Fetch(ctx context.Context, artist, album string) ([]byte, error)
}

// ChainSource tries each source in strict order, first image wins. A failed
// source only means we move on to the next one.
type ChainSource []Source

func (cs ChainSource) Fetch(ctx context.Context, artist, album string) ([]byte, error) {
	for _, src := range cs {
		cover, err := src.Fetch(ctx, artist, album)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.DebugContext(ctx, "cover source miss", "artist", artist, "album", album, "err", err)
			continue
		}
		if len(cover) > 0 {
			return cover, nil
		}
	}
	return nil, ErrCoverNotFound
}

// MusicBrainz searches the release-group index and fetches the group's front
// cover from the Cover Art Archive.
type MusicBrainz struct {
	MB  *musicbrainz.MBClient
	CAA *musicbrainz.CAAClient
}

func (s MusicBrainz) Fetch(ctx context.Context, artist, album string) ([]byte, error) {
	releaseGroupMBID, err := s.MB.SearchReleaseGroup(ctx, artist, album)
	if errors.Is(err, musicbrainz.ErrNoResults) {
		return nil, ErrCoverNotFound
	}
	if err != nil {
		return nil, err
	}
	cover, err := s.CAA.GetReleaseGroupFront(ctx, releaseGroupMBID)
	if se := musicbrainz.StatusError(0); errors.As(err, &se) {
		return nil, ErrCoverNotFound
	}
	if err != nil {
		return nil, err
	}
	return cover, nil
}

// ITunes searches the commercial catalog and fetches the first result's
// artwork.
type ITunes struct {
	Client *itunes.Client
}

func (s ITunes) Fetch(ctx context.Context, artist, album string) ([]byte, error) {
	cover, err := s.Client.SearchAlbumArt(ctx, artist, album)
	if errors.Is(err, itunes.ErrNoResults) {
		return nil, ErrCoverNotFound
	}
	if err != nil {
		return nil, err
	}
	return cover, nil
}
