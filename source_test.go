package songfetch

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSource(t *testing.T) {
	t.Parallel()

	// column order doesn't matter, fields are trimmed
	src, err := NewCSVSource(strings.NewReader(
		"Title,Artist\n" +
			"Wings, The Fall \n" +
			"Totally Wired,The Fall\n" +
			",The Fall\n"))
	require.NoError(t, err)

	req, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, SongRequest{Artist: "The Fall", Title: "Wings"}, req)

	req, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, SongRequest{Artist: "The Fall", Title: "Totally Wired"}, req)

	req, err = src.Next()
	require.NoError(t, err)
	assert.Empty(t, req.Title, "empty fields pass through for the batch to skip")

	_, err = src.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestCSVSourceMissingColumns(t *testing.T) {
	t.Parallel()

	_, err := NewCSVSource(strings.NewReader("Artist,Song\na,b\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Title")

	_, err = NewCSVSource(strings.NewReader("Name,Title\na,b\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Artist")

	_, err = NewCSVSource(strings.NewReader(""))
	require.Error(t, err)
}

func TestPromptSource(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	src := NewPromptSource(strings.NewReader(
		"https://example.com/watch?v=x\n"+
			" The Fall \n"+
			"Wings\n"+
			"\n"), &out)

	req, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, SongRequest{
		Artist:    "The Fall",
		Title:     "Wings",
		SourceURL: "https://example.com/watch?v=x",
	}, req)

	// empty URL ends the batch
	_, err = src.Next()
	require.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out.String(), "Enter song URL")
	assert.Contains(t, out.String(), "Enter artist name")
}

func TestPromptSourceInputEnds(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	src := NewPromptSource(strings.NewReader("https://example.com/a\n"), &out)

	// input drained mid-entry
	_, err := src.Next()
	require.ErrorIs(t, err, io.EOF)
}
