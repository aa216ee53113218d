package songfetch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMissingColumn = errors.New("missing required column")

// CSVSource yields a request per row of a file with named Artist and Title
// columns. A missing column is a configuration error caught up front,
// before any row is processed.
type CSVSource struct {
	r         *csv.Reader
	artistIdx int
	titleIdx  int
}

func NewCSVSource(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	artistIdx, titleIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Artist":
			artistIdx = i
		case "Title":
			titleIdx = i
		}
	}
	if artistIdx < 0 {
		return nil, fmt.Errorf("%w: Artist", ErrMissingColumn)
	}
	if titleIdx < 0 {
		return nil, fmt.Errorf("%w: Title", ErrMissingColumn)
	}

	return &CSVSource{r: cr, artistIdx: artistIdx, titleIdx: titleIdx}, nil
}

func (s *CSVSource) Next() (SongRequest, error) {
	record, err := s.r.Read()
	if err != nil {
		return SongRequest{}, err
	}

	var req SongRequest
	if s.artistIdx < len(record) {
		req.Artist = strings.TrimSpace(record[s.artistIdx])
	}
	if s.titleIdx < len(record) {
		req.Title = strings.TrimSpace(record[s.titleIdx])
	}
	return req, nil
}

// PromptSource yields requests from repeated URL, artist, title prompts. An
// empty URL ends the batch.
type PromptSource struct {
	scanner *bufio.Scanner
	w       io.Writer
}

func NewPromptSource(r io.Reader, w io.Writer) *PromptSource {
	return &PromptSource{scanner: bufio.NewScanner(r), w: w}
}

func (s *PromptSource) Next() (SongRequest, error) {
	url, err := s.prompt("Enter song URL to download (or press Enter to quit): ")
	if err != nil {
		return SongRequest{}, err
	}
	if url == "" {
		return SongRequest{}, io.EOF
	}

	artist, err := s.prompt("Enter artist name: ")
	if err != nil {
		return SongRequest{}, err
	}
	title, err := s.prompt("Enter song title: ")
	if err != nil {
		return SongRequest{}, err
	}

	return SongRequest{Artist: artist, Title: title, SourceURL: url}, nil
}

func (s *PromptSource) prompt(label string) (string, error) {
	fmt.Fprint(s.w, label)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}
