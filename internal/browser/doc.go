// Package browser is the page-automation bridge between the engine and
// the target site's tab.
//
// The Bridge interface exposes DOM primitives (find with text filter,
// counts, visibility, attribute collection, clicks) plus an escape
// hatch for running JavaScript in the page's unrestricted context and
// an in-page fetch for recovering transient blob: URLs.
//
// ChromeBridge is the production implementation, driving a Chrome
// DevTools Protocol session via chromedp. It either attaches to a
// running Chrome (remote debugging URL) or launches its own instance:
//
//	bridge, err := browser.Connect(ctx, browser.Options{
//	    UserDataDir: "/home/user/.suno-batch/profile",
//	})
//	defer bridge.Close()
//	err = bridge.Navigate(ctx, "https://suno.com/create")
//
// A small helper script is injected into the page; Ping reports whether
// it is still responsive and InjectHelpers reinstalls it after the site
// navigates internally.
package browser
