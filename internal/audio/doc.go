// Package audio writes ID3v2 metadata into downloaded MP3 files.
//
// Tagger fills title, artist, genre and unsynchronised lyrics frames
// from the clip record, and optionally embeds resized JPEG cover art.
// WAV downloads are never tagged; the format has no ID3 container.
package audio
