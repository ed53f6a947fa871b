package selector

// Entry maps a logical UI target to its locator strategies.
//
// The primary locator is the most precise known selector; fallbacks are
// tried in order when the primary no longer matches (the site ships
// auto-generated class names that change without notice). RequiredText
// narrows matches further and, when set, enables a last-resort scan of
// broad interactive element classes by text alone.
type Entry struct {
	// Key is the logical target name.
	Key string

	// Primary is the preferred CSS locator.
	Primary string

	// Fallbacks are tried in order after the primary.
	Fallbacks []string

	// RequiredText must appear in the element's text content
	// (case-insensitive). Empty means no text constraint.
	RequiredText string

	// Description documents what the target is, for diagnostics.
	Description string
}

// Logical target keys for the create page and the clip list.
const (
	KeyCustomToggle       = "custom-mode-toggle"
	KeyTitleInput         = "title-input"
	KeyStyleInput         = "style-input"
	KeyLyricsInput        = "lyrics-input"
	KeyInstrumentalToggle = "instrumental-toggle"
	KeyCreateButton       = "create-button"
	KeyClipRow            = "clip-row"
	KeyClipMenuButton     = "clip-menu-button"
	KeyDownloadMenuItem   = "download-menu-item"
	KeyMP3Option          = "mp3-option"
	KeyWAVOption          = "wav-option"
)

// DefaultEntries is the selector table for the current site markup.
// This is static configuration; updating it is the expected maintenance
// burden when the site changes.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Key:          KeyCustomToggle,
			Primary:      `button[aria-label="Custom"]`,
			Fallbacks:    []string{`[role="tab"]`, `button[data-state]`},
			RequiredText: "custom",
			Description:  "switch the create form into custom mode",
		},
		{
			Key:         KeyTitleInput,
			Primary:     `input[placeholder="Enter song title"]`,
			Fallbacks:   []string{`input[placeholder*="title" i]`, `input[maxlength="80"]`},
			Description: "song title input",
		},
		{
			Key:         KeyStyleInput,
			Primary:     `textarea[placeholder="Enter style of music"]`,
			Fallbacks:   []string{`textarea[placeholder*="style" i]`, `textarea[maxlength="200"]`},
			Description: "style of music input",
		},
		{
			Key:         KeyLyricsInput,
			Primary:     `textarea[placeholder="Enter your own lyrics"]`,
			Fallbacks:   []string{`textarea[placeholder*="lyrics" i]`, `textarea[data-testid="lyrics-input"]`},
			Description: "custom lyrics input",
		},
		{
			Key:          KeyInstrumentalToggle,
			Primary:      `button[aria-label="Instrumental"]`,
			Fallbacks:    []string{`button[role="switch"]`, `[data-testid="instrumental-toggle"]`},
			RequiredText: "instrumental",
			Description:  "instrumental mode switch",
		},
		{
			Key:          KeyCreateButton,
			Primary:      `button[data-testid="create-button"]`,
			Fallbacks:    []string{`button[aria-label="Create"]`, `button[type="submit"]`},
			RequiredText: "create",
			Description:  "submit the generation request",
		},
		{
			Key:         KeyClipRow,
			Primary:     `[data-clip-id]`,
			Fallbacks:   []string{`[data-testid="song-row"]`, `div[role="row"]`},
			Description: "one generated clip row in the workspace list",
		},
		{
			Key:         KeyClipMenuButton,
			Primary:     `button[aria-label="More Options"]`,
			Fallbacks:   []string{`button[aria-haspopup="menu"]`, `[data-testid="clip-menu-trigger"]`},
			Description: "per-clip context menu trigger",
		},
		{
			Key:          KeyDownloadMenuItem,
			Primary:      `[role="menuitem"]`,
			RequiredText: "download",
			Description:  "Download entry in the clip context menu",
		},
		{
			Key:          KeyMP3Option,
			Primary:      `[role="menuitem"]`,
			RequiredText: "mp3 audio",
			Description:  "MP3 format option in the download submenu",
		},
		{
			Key:          KeyWAVOption,
			Primary:      `[role="menuitem"]`,
			RequiredText: "wav audio",
			Description:  "WAV format option in the download submenu",
		},
	}
}
