// Package app wires the engine together for the command-line entry
// points: storage, settings, event bus, browser session and the queue
// runner.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gemchajang/suno-batch-generator/internal/browser"
	"github.com/gemchajang/suno-batch-generator/internal/config"
	"github.com/gemchajang/suno-batch-generator/internal/download"
	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/http"
	"github.com/gemchajang/suno-batch-generator/internal/queue"
	"github.com/gemchajang/suno-batch-generator/internal/selector"
	"github.com/gemchajang/suno-batch-generator/internal/store"
	"github.com/gemchajang/suno-batch-generator/internal/suno"
)

// DefaultDBPath returns the default queue database location.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".suno-batch", "queue.db")
}

// Session holds the long-lived pieces of one program run.
type Session struct {
	Store    *store.SQLite
	Settings *config.Settings
	Bus      *events.Bus
	Runner   *queue.Runner

	bridge *browser.ChromeBridge
}

// Open loads storage and settings. The browser is not touched; queue
// inspection commands work without one.
func Open(ctx context.Context, dbPath string) (*Session, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	settings, ok, err := st.LoadSettings(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		settings = config.DefaultSettings()
	}

	s := &Session{
		Store:    st,
		Settings: settings,
		Bus:      events.NewBus(500),
	}
	s.Runner = queue.NewRunner(st, s.Bus, nil, settings)

	state, err := st.LoadQueue(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load queue: %w", err)
	}
	s.Runner.Restore(state)
	return s, nil
}

// Attach connects the browser, navigates to the create page and builds
// the full execution pipeline. envFile points at the credentials file
// for the API retrieval path; missing credentials degrade the chain to
// UI and CDN retrieval only.
func (s *Session) Attach(ctx context.Context, envFile string) error {
	bridge, err := browser.Connect(ctx, browser.Options{
		RemoteDebugURL: s.Settings.RemoteDebugURL,
		Headless:       s.Settings.HeadlessBrowser,
	})
	if err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	s.bridge = bridge

	if err := bridge.Navigate(ctx, s.Settings.CreatePageURL); err != nil {
		bridge.Close()
		return fmt.Errorf("open create page: %w", err)
	}
	if err := bridge.InjectHelpers(ctx); err != nil {
		bridge.Close()
		return fmt.Errorf("inject page helpers: %w", err)
	}

	resolver := selector.NewResolver(bridge, selector.DefaultEntries())

	httpClient := http.NewClient()
	creds, err := config.LoadCredentials(envFile)
	if err != nil {
		bridge.Close()
		return fmt.Errorf("load credentials: %w", err)
	}

	strategies := []download.Strategy{
		download.NewUIMenuStrategy(bridge, resolver, s.Bus),
	}
	if creds.HasSession() {
		httpClient.SetSession(creds.SessionCookie, creds.BearerToken)
		sunoClient := suno.NewClient(httpClient, suno.DefaultBaseURL)
		strategies = append(strategies, download.NewAPIStrategy(sunoClient, s.Bus, s.Settings.GenerationTimeout()))
	} else {
		s.Bus.Log(events.LevelWarning, "no API credentials, download falls back to UI and CDN paths")
	}
	strategies = append(strategies, download.CDNStrategy{HTTP: httpClient})

	sink := download.NewFileSink(httpClient, s.Settings.DownloadsPath, s.Settings.ToClipFileConfig())
	sink.Bus = s.Bus
	sink.ModifyTags = s.Settings.ModifyTags
	sink.SaveCoverArt = s.Settings.SaveCoverArtInTags
	sink.CoverArtMaxSize = s.Settings.CoverArtMaxSize

	retriever := download.NewRetriever(sink, s.Bus, strategies...)
	retriever.SetRetryPolicy(
		s.Settings.DownloadMaxRetries,
		s.Settings.DownloadCooldown(),
		s.Settings.DownloadRetryExponent,
	)

	settingsFn := func() *config.Settings {
		snapshot := s.Runner.Settings()
		return &snapshot
	}
	pipeline := queue.NewBrowserPipeline(bridge, resolver, retriever, s.Bus, settingsFn)

	s.Runner = queue.NewRunner(s.Store, s.Bus, pipeline, s.Settings)
	s.Runner.SetPage(bridge)

	state, err := s.Store.LoadQueue(ctx)
	if err != nil {
		return fmt.Errorf("load queue: %w", err)
	}
	s.Runner.Restore(state)
	return nil
}

// Close releases the browser session and the store.
func (s *Session) Close() {
	if s.bridge != nil {
		s.bridge.Close()
	}
	s.Store.Close()
}
