package browser

import (
	"context"
)

// Bridge is the page-automation contract the engine drives the target
// site through. It deliberately stays close to DOM primitives so the
// resolution, filling and monitoring algorithms live in Go and can be
// tested against a fake implementation.
//
// Locators are CSS selectors. Find returns a dedicated marker locator
// (a data attribute stamped on the matched element) that stays valid
// until the element is removed from the document, so follow-up actions
// hit exactly the element that was resolved.
type Bridge interface {
	// Navigate loads the given URL in the automation tab and waits for
	// the document to be ready.
	Navigate(ctx context.Context, url string) error

	// Ping verifies the automation tab is alive and the injected page
	// helpers respond.
	Ping(ctx context.Context) error

	// InjectHelpers (re-)installs the in-page helper script. Safe to
	// call repeatedly.
	InjectHelpers(ctx context.Context) error

	// Find locates the first visible element matching css whose text
	// contains requiredText (case-insensitive; empty matches any).
	// On success it returns a marker locator for the element.
	Find(ctx context.Context, css, requiredText string) (locator string, found bool, err error)

	// Count returns the number of elements matching css.
	Count(ctx context.Context, css string) (int, error)

	// Visible reports whether at least one element matching css is
	// currently visible.
	Visible(ctx context.Context, css string) (bool, error)

	// CollectAttr returns the attribute values of all elements
	// matching css that carry the attribute.
	CollectAttr(ctx context.Context, css, attr string) ([]string, error)

	// Click performs a trusted input-event click on the element at
	// locator.
	Click(ctx context.Context, locator string) error

	// Eval executes JavaScript in the page's unrestricted context and
	// decodes its JSON-serializable result into out. Pass nil to
	// discard the result.
	Eval(ctx context.Context, js string, out any) error

	// FetchBlob fetches a URL from inside the page (same-origin, with
	// the page's cookies) and returns the raw bytes. This is the
	// handoff point for transient blob: links.
	FetchBlob(ctx context.Context, url string) ([]byte, error)

	// Close tears the automation session down.
	Close() error
}
