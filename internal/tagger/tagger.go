package tagger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/jfmyers9/gnlookup/pkg/gracenote"
)

// User-defined (TXXX) frame descriptions written alongside the standard frames
const (
	DescAlbumID = "GRACENOTE_ALBUM_ID"
	DescTrackID = "GRACENOTE_TRACK_ID"
	DescMood    = "MOOD"
	DescTempo   = "TEMPO"
)

// Tag writes album metadata into the ID3 tag of the MP3 file at path.
//
// Album-level frames (TALB, TPE2, TYER, TCON) are always written. When track
// is non-nil its title, artist, number, mood and tempo are written too;
// otherwise TPE1 falls back to the album artist. A non-nil art replaces any
// attached pictures with a front cover. Existing frames of the same kind are
// replaced.
func Tag(path string, album gracenote.Album, track *gracenote.Track, art *Artwork) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetAlbum(album.Title)
	setText(tag, "TPE2", album.ArtistName)
	setText(tag, "TYER", album.Year)
	tag.SetGenre(MostSpecific(album.Genre))
	setUserText(tag, DescAlbumID, album.ID)

	if track != nil {
		tag.SetTitle(track.Title)
		tag.SetArtist(track.ArtistName)
		number := ""
		if track.Number > 0 {
			number = strconv.Itoa(track.Number)
		}
		setText(tag, "TRCK", number)
		setUserText(tag, DescTrackID, track.ID)
		setUserText(tag, DescMood, MostSpecific(track.Mood))
		setUserText(tag, DescTempo, MostSpecific(track.Tempo))
	} else {
		tag.SetArtist(album.ArtistName)
		tag.DeleteFrames(tag.CommonID("Title/Songname/Content description"))
		tag.DeleteFrames("TRCK")
		for _, desc := range []string{DescTrackID, DescMood, DescTempo} {
			setUserText(tag, desc, "")
		}
	}

	if art != nil {
		setArtwork(tag, art)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}

// MatchTrack returns the track of album whose title matches title, ignoring
// case. An album with a single track matches any title, which is how best
// match track searches come back. Returns nil when nothing matches.
func MatchTrack(album gracenote.Album, title string) *gracenote.Track {
	for i := range album.Tracks {
		if strings.EqualFold(strings.TrimSpace(album.Tracks[i].Title), strings.TrimSpace(title)) {
			return &album.Tracks[i]
		}
	}
	if len(album.Tracks) == 1 {
		return &album.Tracks[0]
	}
	return nil
}

func setText(tag *id3v2.Tag, id, value string) {
	tag.DeleteFrames(id)
	if value != "" {
		tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	}
}

// setUserText replaces the TXXX frame with the given description. An empty
// value removes it.
func setUserText(tag *id3v2.Tag, description, value string) {
	id := tag.CommonID("User defined text information frame")

	var keep []id3v2.UserDefinedTextFrame
	for _, f := range tag.GetFrames(id) {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if ok && udtf.Description != description {
			keep = append(keep, udtf)
		}
	}
	tag.DeleteFrames(id)
	for _, udtf := range keep {
		tag.AddUserDefinedTextFrame(udtf)
	}

	if value == "" {
		return
	}
	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: description,
		Value:       value,
	})
}

// setArtwork embeds cover art as an attached picture frame
func setArtwork(tag *id3v2.Tag, art *Artwork) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    art.MimeType,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     art.Data,
	})
}
