package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

// Settings holds all configuration options.
//
// A snapshot of Settings is read at job start and stays fixed for the
// whole job; edits apply between jobs.
type Settings struct {
	// Queue settings
	DelayBetweenJobsSec  int `json:"delay_between_jobs_sec"`
	GenerationTimeoutSec int `json:"generation_timeout_sec"`
	MaxRetries           int `json:"max_retries"`

	// Output settings
	DownloadsPath  string `json:"downloads_path"`
	AudioFormat    string `json:"audio_format"` // mp3, wav
	FileNameFormat string `json:"file_name_format"`

	// Tagging settings
	ModifyTags         bool `json:"modify_tags"`
	SaveCoverArtInTags bool `json:"save_cover_art_in_tags"`
	CoverArtMaxSize    int  `json:"cover_art_max_size"`

	// Download retry settings
	DownloadMaxRetries    int     `json:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent"`

	// Browser settings
	CreatePageURL   string `json:"create_page_url"`
	RemoteDebugURL  string `json:"remote_debug_url"`
	PageRetryLimit  int    `json:"page_retry_limit"`
	PageRetryDelay  int    `json:"page_retry_delay_sec"`
	HeadlessBrowser bool   `json:"headless_browser"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DelayBetweenJobsSec:  10,
		GenerationTimeoutSec: 300,
		MaxRetries:           3,

		DownloadsPath:  filepath.Join(homeDir, "Music", "Suno"),
		AudioFormat:    "mp3",
		FileNameFormat: "{title} ({index})",

		ModifyTags:         true,
		SaveCoverArtInTags: true,
		CoverArtMaxSize:    1000,

		DownloadMaxRetries:    5,
		DownloadRetryCooldown: 0.5,
		DownloadRetryExponent: 2.0,

		CreatePageURL:   "https://suno.com/create",
		RemoteDebugURL:  "",
		PageRetryLimit:  5,
		PageRetryDelay:  3,
		HeadlessBrowser: false,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned instead.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GenerationTimeout returns the generation timeout as a duration.
func (s *Settings) GenerationTimeout() time.Duration {
	return time.Duration(s.GenerationTimeoutSec) * time.Second
}

// DelayBetweenJobs returns the inter-job delay as a duration.
func (s *Settings) DelayBetweenJobs() time.Duration {
	return time.Duration(s.DelayBetweenJobsSec) * time.Second
}

// DownloadCooldown returns the initial download retry cooldown as a
// duration.
func (s *Settings) DownloadCooldown() time.Duration {
	return time.Duration(s.DownloadRetryCooldown * float64(time.Second))
}

// Format returns the configured output format as a model.AudioFormat.
func (s *Settings) Format() model.AudioFormat {
	if s.AudioFormat == "wav" {
		return model.FormatWAV
	}
	return model.FormatMP3
}

// ToClipFileConfig converts settings to a ClipFileConfig.
func (s *Settings) ToClipFileConfig() *model.ClipFileConfig {
	return &model.ClipFileConfig{
		FileNameFormat: s.FileNameFormat,
		Format:         s.Format(),
	}
}

// Patch holds partial settings updates; nil fields are left unchanged.
type Patch struct {
	DelayBetweenJobsSec  *int    `json:"delay_between_jobs_sec,omitempty"`
	GenerationTimeoutSec *int    `json:"generation_timeout_sec,omitempty"`
	MaxRetries           *int    `json:"max_retries,omitempty"`
	DownloadsPath        *string `json:"downloads_path,omitempty"`
	AudioFormat          *string `json:"audio_format,omitempty"`
	FileNameFormat       *string `json:"file_name_format,omitempty"`
}

// Apply merges a partial update into the settings.
func (s *Settings) Apply(p Patch) {
	if p.DelayBetweenJobsSec != nil {
		s.DelayBetweenJobsSec = *p.DelayBetweenJobsSec
	}
	if p.GenerationTimeoutSec != nil {
		s.GenerationTimeoutSec = *p.GenerationTimeoutSec
	}
	if p.MaxRetries != nil {
		s.MaxRetries = *p.MaxRetries
	}
	if p.DownloadsPath != nil {
		s.DownloadsPath = *p.DownloadsPath
	}
	if p.AudioFormat != nil {
		s.AudioFormat = *p.AudioFormat
	}
	if p.FileNameFormat != nil {
		s.FileNameFormat = *p.FileNameFormat
	}
}
