package lyrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/songfetch/lyrics"
)

func TestLyricsOVH(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Rick Astley/Never Gonna Give You Up":
			w.Write([]byte(`{"lyrics": "We're no strangers to love"}`))
		case "/Nobody/Nothing":
			http.Error(w, `{"error": "No lyrics found"}`, http.StatusNotFound)
		default:
			http.Error(w, "bad path", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	src := lyrics.LyricsOVH{BaseURL: srv.URL}

	resp, err := src.Search(context.Background(), "Rick Astley", "Never Gonna Give You Up")
	require.NoError(t, err)
	assert.Equal(t, "We're no strangers to love", resp)

	resp, err = src.Search(context.Background(), "Nobody", "Nothing")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)
	assert.Empty(t, resp)
}

func TestLRCLib(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/get", r.URL.Path)
		switch r.URL.Query().Get("track_name") {
		case "Wings":
			w.Write([]byte(`{"plainLyrics": "I paid them off", "syncedLyrics": ""}`))
		default:
			http.Error(w, `{"message": "not found"}`, http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := lyrics.LRCLib{BaseURL: srv.URL}

	resp, err := src.Search(context.Background(), "The Fall", "Wings")
	require.NoError(t, err)
	assert.Equal(t, "I paid them off", resp)

	_, err = src.Search(context.Background(), "The Fall", "Uhh yeah")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)
}

type stubSource struct {
	text  string
	err   error
	calls int
}

func (s *stubSource) Search(context.Context, string, string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestChainSource(t *testing.T) {
	t.Parallel()

	primary := &stubSource{err: lyrics.ErrLyricsNotFound}
	secondary := &stubSource{text: "la la la"}

	resp, err := lyrics.ChainSource{primary, secondary}.Search(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "la la la", resp)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)

	// first success stops the chain
	primary = &stubSource{text: "first"}
	secondary = &stubSource{text: "second"}
	resp, err = lyrics.ChainSource{primary, secondary}.Search(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "first", resp)
	assert.Equal(t, 0, secondary.calls)

	// unexpected errors are returned as-is
	boom := errors.New("boom")
	_, err = lyrics.ChainSource{&stubSource{err: boom}}.Search(context.Background(), "a", "b")
	require.ErrorIs(t, err, boom)

	_, err = lyrics.ChainSource{}.Search(context.Background(), "a", "b")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)
}
