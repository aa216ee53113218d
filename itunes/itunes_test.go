package itunes_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/songfetch/itunes"
)

func TestSearchAlbumArt(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			require.Equal(t, "album", r.URL.Query().Get("entity"))
			require.Equal(t, "1", r.URL.Query().Get("limit"))
			switch r.URL.Query().Get("term") {
			case "The Fall Perverted by Language":
				fmt.Fprintf(w, `{
					"resultCount": 1,
					"results": [{
						"collectionName": "Perverted by Language",
						"artworkUrl100": "%s/image/100x100bb.jpg"
					}]
				}`, srv.URL)
			default:
				w.Write([]byte(`{"resultCount": 0, "results": []}`))
			}
		case "/image/600x600bb.jpg":
			w.Write([]byte("big jpeg"))
		case "/image/100x100bb.jpg":
			w.Write([]byte("small jpeg"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := itunes.Client{BaseURL: srv.URL}

	// thumbnail URL upgraded to the 600px tier before fetching
	artwork, err := client.SearchAlbumArt(context.Background(), "The Fall", "Perverted by Language")
	require.NoError(t, err)
	assert.Equal(t, []byte("big jpeg"), artwork)

	_, err = client.SearchAlbumArt(context.Background(), "The Fall", "No Such Album")
	require.ErrorIs(t, err, itunes.ErrNoResults)
}
