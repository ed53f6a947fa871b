package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// AudioFormat is the output format for downloaded clips.
type AudioFormat string

const (
	// FormatMP3 is the compressed stream the site serves by default.
	FormatMP3 AudioFormat = "mp3"

	// FormatWAV is the lossless format produced by a server-side
	// conversion step.
	FormatWAV AudioFormat = "wav"
)

// Extension returns the file extension including the leading dot.
func (f AudioFormat) Extension() string {
	switch f {
	case FormatWAV:
		return ".wav"
	default:
		return ".mp3"
	}
}

// Clip is one generated audio candidate belonging to a generation request.
//
// A single request commonly yields two clips. Clip metadata comes either
// from the site's feed API or from DOM inspection, so most fields are
// optional.
type Clip struct {
	// ID is the site's clip identifier.
	ID string

	// Title is the clip title as reported by the site. Falls back to
	// the job's input title when empty.
	Title string

	// Style is the style prompt the clip was generated from.
	Style string

	// Lyrics holds the generated or provided lyrics, if known.
	Lyrics string

	// AudioURL is a direct URL to the audio payload, when discovered.
	AudioURL string

	// ImageURL is the cover image URL, when available.
	ImageURL string

	// Index distinguishes sibling clips of one request (1-based).
	Index int
}

// ClipFileConfig controls output file naming for downloaded clips.
//
// FileNameFormat supports placeholders:
//   - {title} - clip or job title
//   - {style} - style prompt
//   - {index} - clip index within the request (1-based)
//   - {id} - short clip id prefix (8 chars)
type ClipFileConfig struct {
	// FileNameFormat is the template for clip filenames, without
	// extension. The extension comes from the configured AudioFormat.
	FileNameFormat string

	// Format selects the output audio format.
	Format AudioFormat
}

// FileName computes the sanitized output filename for the clip.
func (c *Clip) FileName(cfg *ClipFileConfig) string {
	name := cfg.FileNameFormat
	if name == "" {
		name = "{title}"
	}

	title := c.Title
	shortID := c.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	name = strings.ReplaceAll(name, "{title}", title)
	name = strings.ReplaceAll(name, "{style}", c.Style)
	name = strings.ReplaceAll(name, "{index}", fmt.Sprintf("%d", c.Index))
	name = strings.ReplaceAll(name, "{id}", shortID)

	return sanitizeFileName(name) + cfg.Format.Extension()
}

// FilePath computes the full output path under baseDir, honoring an
// optional subfolder. Overlong paths are truncated for Windows
// compatibility (MAX_PATH = 260).
func (c *Clip) FilePath(baseDir, subfolder string, cfg *ClipFileConfig) string {
	dir := baseDir
	if subfolder != "" {
		dir = filepath.Join(baseDir, sanitizeFileName(subfolder))
	}

	fileName := c.FileName(cfg)
	path := filepath.Join(dir, fileName)

	if len(path) >= 260 {
		ext := filepath.Ext(fileName)
		maxLen := 259 - len(dir) - 1 - len(ext)
		if maxLen > 0 && maxLen < len(fileName)-len(ext) {
			path = filepath.Join(dir, fileName[:maxLen]+ext)
		}
	}

	return path
}

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	multiWhitespace  = regexp.MustCompile(`\s+`)
)

// sanitizeFileName replaces characters that are invalid in file or
// folder names across platforms, with Windows being the most
// restrictive.
func sanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiWhitespace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
