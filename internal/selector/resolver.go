package selector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/browser"
)

// ErrNotFound is returned when no locator strategy produced a match.
var ErrNotFound = errors.New("target not found")

// ErrUnknownKey is returned for a key with no table entry.
var ErrUnknownKey = errors.New("unknown target key")

// interactiveScan is the broad element class searched by text when all
// configured locators miss.
const interactiveScan = `button, a, [role="button"], [role="menuitem"], [role="tab"], [role="switch"]`

// Resolver maps logical target keys to live elements through layered
// locator strategies.
type Resolver struct {
	bridge       browser.Bridge
	entries      map[string]Entry
	pollInterval time.Duration
}

// NewResolver creates a Resolver over the given bridge and entries.
// Pass DefaultEntries() unless a test supplies its own table.
func NewResolver(bridge browser.Bridge, entries []Entry) *Resolver {
	byKey := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}
	return &Resolver{
		bridge:       bridge,
		entries:      byKey,
		pollInterval: 250 * time.Millisecond,
	}
}

// Resolve maps a logical key to a live element locator.
//
// The primary locator is tried first, then each fallback in order, all
// honoring the entry's required-text constraint. When every configured
// locator misses and a required text exists, broad interactive element
// classes are scanned for the text as a last resort. ErrNotFound is
// returned when nothing matched.
func (r *Resolver) Resolve(ctx context.Context, key string) (string, error) {
	entry, ok := r.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	locators := append([]string{entry.Primary}, entry.Fallbacks...)
	for _, css := range locators {
		locator, found, err := r.bridge.Find(ctx, css, entry.RequiredText)
		if err != nil {
			return "", err
		}
		if found {
			return locator, nil
		}
	}

	if entry.RequiredText != "" {
		locator, found, err := r.bridge.Find(ctx, interactiveScan, entry.RequiredText)
		if err != nil {
			return "", err
		}
		if found {
			return locator, nil
		}
	}

	return "", fmt.Errorf("%w: %s (%s)", ErrNotFound, key, entry.Description)
}

// WaitFor polls Resolve at a fixed interval until the target appears or
// the timeout elapses.
func (r *Resolver) WaitFor(ctx context.Context, key string, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)

	for {
		locator, err := r.Resolve(ctx, key)
		if err == nil {
			return locator, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
		if time.Now().After(deadline) {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.pollInterval):
		}
	}
}

// Entry returns the table entry for a key, for diagnostics.
func (r *Resolver) Entry(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}
