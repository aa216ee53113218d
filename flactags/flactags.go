// flactags writes song metadata and cover art into FLAC files in place.
package flactags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

const coverMIME = "image/jpeg"

type Metadata struct {
	Artist string
	Title  string
	Album  string // optional
	Lyrics string // optional
	Cover  []byte // optional
}

// Embed rewrites the file's vorbis comment, always setting artist and title
// and setting album and lyrics only when present. Comment fields we don't
// know about survive. When a cover is given, any existing pictures are
// cleared and exactly one front cover is embedded, so embedding the same
// metadata twice leaves the same tag set.
func Embed(path string, m Metadata) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	cmt, cmtIdx, err := findComment(f)
	if err != nil {
		return fmt.Errorf("read comment block: %w", err)
	}

	setField(cmt, flacvorbis.FIELD_ARTIST, m.Artist)
	setField(cmt, flacvorbis.FIELD_TITLE, m.Title)
	if m.Album != "" {
		setField(cmt, flacvorbis.FIELD_ALBUM, m.Album)
	}
	if m.Lyrics != "" {
		setField(cmt, "LYRICS", m.Lyrics)
	}

	cmtBlock := cmt.Marshal()
	if cmtIdx < 0 {
		f.Meta = append(f.Meta, &cmtBlock)
	} else {
		f.Meta[cmtIdx] = &cmtBlock
	}

	if len(m.Cover) > 0 {
		if err := setFrontCover(f, m.Cover); err != nil {
			return fmt.Errorf("embed cover: %w", err)
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	return nil
}

func findComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for idx, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, 0, err
			}
			return cmt, idx, nil
		}
	}
	return flacvorbis.New(), -1, nil
}

// setField replaces any existing values for the field, since
// flacvorbis.Add only ever appends.
func setField(cmt *flacvorbis.MetaDataBlockVorbisComment, key, value string) {
	prefix := strings.ToUpper(key) + "="
	cmt.Comments = slices.DeleteFunc(cmt.Comments, func(c string) bool {
		return strings.HasPrefix(strings.ToUpper(c), prefix)
	})
	_ = cmt.Add(key, value)
}

func setFrontCover(f *flac.File, cover []byte) error {
	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", cover, coverMIME)
	if err != nil {
		return err
	}
	pictureBlock := picture.Marshal()

	f.Meta = slices.DeleteFunc(f.Meta, func(block *flac.MetaDataBlock) bool {
		return block.Type == flac.Picture
	})
	f.Meta = append(f.Meta, &pictureBlock)
	return nil
}
