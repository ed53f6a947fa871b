// Package selector resolves logical UI targets to live DOM elements.
//
// The target site ships auto-generated class names that change without
// notice, so every target is described by an Entry with a primary
// locator, ordered fallbacks and an optional required-text constraint.
// Resolve tries them in order; when all configured locators miss and a
// required text exists, broad interactive element classes are scanned
// for the text as a last resort. WaitFor wraps Resolve in a fixed
// interval poll with a deadline.
//
//	r := selector.NewResolver(bridge, selector.DefaultEntries())
//	locator, err := r.WaitFor(ctx, selector.KeyCreateButton, 10*time.Second)
package selector
