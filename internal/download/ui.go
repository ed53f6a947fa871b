package download

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/browser"
	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/model"
	"github.com/gemchajang/suno-batch-generator/internal/selector"
)

// ErrActionIneffective means a click or hover was dispatched through
// every available method without producing the expected DOM effect.
var ErrActionIneffective = errors.New("action had no effect")

// ErrNoArtifact means a strategy completed its steps but no byte
// source for the audio ever appeared.
var ErrNoArtifact = errors.New("no downloadable artifact found")

// menuOpenCSS matches an open dropdown menu. The site renders menus as
// portaled role=menu containers with a data-state attribute.
const menuOpenCSS = `[role="menu"], [data-state="open"][data-radix-menu-content], [data-radix-popper-content-wrapper]`

// blobLinkCSS matches the transient download link the site creates
// after a format is chosen.
const blobLinkCSS = `a[href^="blob:"], a[download][href]`

// triggerDenyList holds accessible labels of per-clip buttons that are
// definitely not the context-menu trigger.
var triggerDenyList = []string{"play", "pause", "like", "dislike", "share", "publish"}

// UIMenuStrategy retrieves audio by driving the clip's context menu in
// the page, the same path a human user takes.
type UIMenuStrategy struct {
	bridge   browser.Bridge
	resolver *selector.Resolver
	bus      *events.Bus

	menuWait     time.Duration
	blobWait     time.Duration
	pollInterval time.Duration
}

// NewUIMenuStrategy creates the UI retrieval strategy.
func NewUIMenuStrategy(bridge browser.Bridge, resolver *selector.Resolver, bus *events.Bus) *UIMenuStrategy {
	return &UIMenuStrategy{
		bridge:       bridge,
		resolver:     resolver,
		bus:          bus,
		menuWait:     2 * time.Second,
		blobWait:     8 * time.Second,
		pollInterval: 250 * time.Millisecond,
	}
}

// Name identifies the strategy in logs.
func (s *UIMenuStrategy) Name() string { return "ui-menu" }

func (s *UIMenuStrategy) log(level events.Level, format string, args ...any) {
	if s.bus != nil {
		s.bus.Log(level, fmt.Sprintf(format, args...))
	}
}

// Fetch opens the clip's context menu, walks to the requested format
// and captures the blob link the site produces.
func (s *UIMenuStrategy) Fetch(ctx context.Context, clip model.Clip, format model.AudioFormat) (*Artifact, error) {
	baseline, err := s.bridge.CollectAttr(ctx, blobLinkCSS, "href")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(baseline))
	for _, href := range baseline {
		seen[href] = true
	}

	trigger, err := s.findMenuTrigger(ctx, clip.ID)
	if err != nil {
		s.diagnostics(ctx, "menu trigger not found")
		return nil, err
	}

	if err := s.openMenu(ctx, trigger); err != nil {
		s.diagnostics(ctx, "menu did not open")
		return nil, err
	}

	if err := s.selectFormat(ctx, format); err != nil {
		s.diagnostics(ctx, "format selection failed")
		return nil, err
	}

	href, err := s.awaitBlobLink(ctx, seen)
	if err != nil {
		return nil, err
	}

	data, err := s.bridge.FetchBlob(ctx, href)
	if err != nil {
		return nil, fmt.Errorf("fetch blob %s: %w", href, err)
	}

	return &Artifact{Clip: clip, Data: data, Format: format}, nil
}

// findMenuTrigger tries increasingly loose heuristics for the
// context-menu button of the given clip row.
func (s *UIMenuStrategy) findMenuTrigger(ctx context.Context, clipID string) (string, error) {
	row := fmt.Sprintf(`[data-clip-id=%s]`, strconv.Quote(clipID))

	// Accessible label inside the clip's own row.
	for _, css := range []string{
		row + ` button[aria-label="More Options"]`,
		row + ` button[aria-label*="more" i]`,
		row + ` button[aria-haspopup="menu"]`,
	} {
		loc, found, err := s.bridge.Find(ctx, css, "")
		if err != nil {
			return "", err
		}
		if found {
			return loc, nil
		}
	}

	// Configured selector set, not scoped to the row.
	if loc, err := s.resolver.Resolve(ctx, selector.KeyClipMenuButton); err == nil {
		return loc, nil
	}

	// Last resort: the trailing row button that is none of the known
	// unrelated actions.
	var loc string
	if err := s.bridge.Eval(ctx, rowMenuScanJS(clipID, triggerDenyList), &loc); err != nil {
		return "", err
	}
	if loc == "" {
		return "", fmt.Errorf("clip %s menu trigger: %w", clipID, selector.ErrNotFound)
	}
	return loc, nil
}

// openMenu attempts each dispatch method in turn, re-checking the menu
// state after every attempt.
func (s *UIMenuStrategy) openMenu(ctx context.Context, trigger string) error {
	attempts := []struct {
		name string
		run  func(context.Context) error
	}{
		{"handler", func(ctx context.Context) error {
			var ok bool
			if err := s.bridge.Eval(ctx, invokeHandlerJS(trigger), &ok); err != nil {
				return err
			}
			if !ok {
				return ErrActionIneffective
			}
			return nil
		}},
		{"synthetic", func(ctx context.Context) error {
			return s.bridge.Eval(ctx, syntheticClickJS(trigger), nil)
		}},
		{"native", func(ctx context.Context) error {
			return s.bridge.Click(ctx, trigger)
		}},
		{"keyboard", func(ctx context.Context) error {
			return s.bridge.Eval(ctx, keyboardActivateJS(trigger), nil)
		}},
	}

	for _, attempt := range attempts {
		if err := attempt.run(ctx); err != nil {
			s.log(events.LevelVerbose, "menu open via %s: %v", attempt.name, err)
			continue
		}
		open, err := s.awaitMenuOpen(ctx)
		if err != nil {
			return err
		}
		if open {
			s.log(events.LevelVerbose, "menu opened via %s", attempt.name)
			return nil
		}
	}
	return fmt.Errorf("open clip menu: %w", ErrActionIneffective)
}

func (s *UIMenuStrategy) awaitMenuOpen(ctx context.Context) (bool, error) {
	deadline := time.Now().Add(s.menuWait)
	for {
		n, err := s.bridge.Count(ctx, menuOpenCSS)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// selectFormat walks the open menu: hover the Download item to reveal
// its submenu, then click the requested format.
func (s *UIMenuStrategy) selectFormat(ctx context.Context, format model.AudioFormat) error {
	item, err := s.resolver.WaitFor(ctx, selector.KeyDownloadMenuItem, s.menuWait)
	if err != nil {
		return fmt.Errorf("download menu item: %w", err)
	}
	if err := s.bridge.Eval(ctx, hoverJS(item), nil); err != nil {
		return err
	}

	key := selector.KeyMP3Option
	if format == model.FormatWAV {
		key = selector.KeyWAVOption
	}
	option, err := s.resolver.WaitFor(ctx, key, s.menuWait)
	if err != nil {
		// Some menu layouts put the format directly on the Download
		// item instead of a submenu.
		if clickErr := s.bridge.Click(ctx, item); clickErr != nil {
			return fmt.Errorf("format option: %w", err)
		}
		return nil
	}
	return s.bridge.Click(ctx, option)
}

// awaitBlobLink polls for a download link that was not present before
// the menu interaction started.
func (s *UIMenuStrategy) awaitBlobLink(ctx context.Context, seen map[string]bool) (string, error) {
	deadline := time.Now().Add(s.blobWait)
	for {
		hrefs, err := s.bridge.CollectAttr(ctx, blobLinkCSS, "href")
		if err != nil {
			return "", err
		}
		for _, href := range hrefs {
			if !seen[href] {
				return href, nil
			}
		}
		if time.Now().After(deadline) {
			return "", ErrNoArtifact
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// diagnostics logs page state that helps keep selectors current when a
// DOM path fails.
func (s *UIMenuStrategy) diagnostics(ctx context.Context, what string) {
	buttons, _ := s.bridge.Count(ctx, "button")
	menus, _ := s.bridge.Count(ctx, menuOpenCSS)
	dialogs, _ := s.bridge.Count(ctx, `[role="dialog"]`)
	s.log(events.LevelWarning, "%s (page has %d buttons, %d open menus, %d dialogs)", what, buttons, menus, dialogs)
}
