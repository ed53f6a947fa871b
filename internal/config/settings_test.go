package config

import (
	"path/filepath"
	"testing"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	defaults := DefaultSettings()
	if settings.GenerationTimeoutSec != defaults.GenerationTimeoutSec {
		t.Errorf("GenerationTimeoutSec = %d, want %d", settings.GenerationTimeoutSec, defaults.GenerationTimeoutSec)
	}
	if settings.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", settings.MaxRetries)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.json")

	settings := DefaultSettings()
	settings.AudioFormat = "wav"
	settings.DelayBetweenJobsSec = 42

	if err := settings.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.AudioFormat != "wav" {
		t.Errorf("AudioFormat = %q, want wav", loaded.AudioFormat)
	}
	if loaded.DelayBetweenJobsSec != 42 {
		t.Errorf("DelayBetweenJobsSec = %d, want 42", loaded.DelayBetweenJobsSec)
	}
}

func TestFormat(t *testing.T) {
	settings := DefaultSettings()
	if settings.Format() != model.FormatMP3 {
		t.Errorf("default Format() = %s, want mp3", settings.Format())
	}

	settings.AudioFormat = "wav"
	if settings.Format() != model.FormatWAV {
		t.Errorf("Format() = %s, want wav", settings.Format())
	}
}

func TestApplyPatch(t *testing.T) {
	settings := DefaultSettings()

	retries := 7
	format := "wav"
	settings.Apply(Patch{MaxRetries: &retries, AudioFormat: &format})

	if settings.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", settings.MaxRetries)
	}
	if settings.AudioFormat != "wav" {
		t.Errorf("AudioFormat = %q, want wav", settings.AudioFormat)
	}
	// Untouched fields keep their values.
	if settings.DelayBetweenJobsSec != DefaultSettings().DelayBetweenJobsSec {
		t.Error("unrelated field changed by Apply")
	}
}
