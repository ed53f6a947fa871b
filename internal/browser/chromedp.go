package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Options configures the Chrome automation session.
type Options struct {
	// RemoteDebugURL attaches to an already running Chrome instance
	// (ws:// or http://host:port). Empty launches a new instance.
	RemoteDebugURL string

	// Headless runs the launched instance without a window. Ignored
	// when attaching to a remote instance.
	Headless bool

	// UserDataDir preserves the login session between runs. Empty uses
	// a throwaway profile (the site will ask for login every time).
	UserDataDir string

	// OpTimeout bounds individual DOM operations. Defaults to 30s.
	OpTimeout time.Duration
}

// ChromeBridge drives the target site through a Chrome DevTools
// Protocol session. It implements Bridge.
//
// Cancellation note: operations are bounded by OpTimeout against the
// tab's own context. A cancelled caller context stops the engine from
// issuing further operations; an operation already in flight runs to
// its timeout and its result is discarded, which is the cooperative
// model the queue runner expects.
type ChromeBridge struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	opTimeout   time.Duration
}

// Connect establishes the automation session.
func Connect(ctx context.Context, opts Options) (*ChromeBridge, error) {
	opTimeout := opts.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 30 * time.Second
	}

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if opts.RemoteDebugURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteDebugURL)
	} else {
		execOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if !opts.Headless {
			execOpts = append(execOpts,
				chromedp.Flag("headless", false),
				chromedp.Flag("hide-scrollbars", false),
				chromedp.Flag("mute-audio", false),
			)
		}
		if opts.UserDataDir != "" {
			execOpts = append(execOpts, chromedp.UserDataDir(opts.UserDataDir))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, execOpts...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Establish the tab eagerly so connection problems surface here
	// rather than on the first job.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	return &ChromeBridge{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		opTimeout:   opTimeout,
	}, nil
}

// Close tears the automation session down.
func (b *ChromeBridge) Close() error {
	b.tabCancel()
	b.allocCancel()
	return nil
}

func (b *ChromeBridge) run(actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(b.tabCtx, b.opTimeout)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// Navigate loads the URL and waits for the document body, then installs
// the page helpers.
func (b *ChromeBridge) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.run(
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return b.InjectHelpers(ctx)
}

// Ping verifies the tab and the injected helpers respond.
func (b *ChromeBridge) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var ok bool
	if err := b.run(chromedp.Evaluate(pingJS, &ok)); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if !ok {
		return fmt.Errorf("ping: page helpers not responding")
	}
	return nil
}

// InjectHelpers (re-)installs the in-page helper script.
func (b *ChromeBridge) InjectHelpers(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.run(chromedp.Evaluate(helperScript, nil)); err != nil {
		return fmt.Errorf("inject helpers: %w", err)
	}
	return nil
}

// Find locates the first visible match and returns its marker locator.
func (b *ChromeBridge) Find(ctx context.Context, css, requiredText string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var locator *string
	if err := b.run(chromedp.Evaluate(findJS(css, requiredText), &locator)); err != nil {
		return "", false, fmt.Errorf("find %q: %w", css, err)
	}
	if locator == nil || *locator == "" {
		return "", false, nil
	}
	return *locator, true, nil
}

// Count returns the number of elements matching css.
func (b *ChromeBridge) Count(ctx context.Context, css string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	if err := b.run(chromedp.Evaluate(countJS(css), &n)); err != nil {
		return 0, fmt.Errorf("count %q: %w", css, err)
	}
	return n, nil
}

// Visible reports whether any element matching css is visible.
func (b *ChromeBridge) Visible(ctx context.Context, css string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var visible bool
	if err := b.run(chromedp.Evaluate(visibleJS(css), &visible)); err != nil {
		return false, fmt.Errorf("visible %q: %w", css, err)
	}
	return visible, nil
}

// CollectAttr gathers the attribute values of all elements matching css.
func (b *ChromeBridge) CollectAttr(ctx context.Context, css, attr string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var values []string
	if err := b.run(chromedp.Evaluate(collectAttrJS(css, attr), &values)); err != nil {
		return nil, fmt.Errorf("collect %q[%s]: %w", css, attr, err)
	}
	return values, nil
}

// Click performs a trusted input-event click on the locator.
func (b *ChromeBridge) Click(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.run(chromedp.Click(locator, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %q: %w", locator, err)
	}
	return nil
}

// Eval executes JavaScript in the page context, awaiting promises.
func (b *ChromeBridge) Eval(ctx context.Context, js string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.run(chromedp.Evaluate(js, out, func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	return nil
}

// FetchBlob fetches a URL from inside the page and returns its bytes.
func (b *ChromeBridge) FetchBlob(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var encoded string
	if err := b.Eval(ctx, fetchBlobJS(url), &encoded); err != nil {
		return nil, fmt.Errorf("fetch blob %s: %w", url, err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode blob payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty blob payload from %s", url)
	}
	return data, nil
}
