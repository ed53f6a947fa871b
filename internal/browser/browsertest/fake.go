// Package browsertest provides a scriptable in-memory Bridge for tests.
package browsertest

import (
	"context"
	"sync"
)

// FindCall records one Find invocation.
type FindCall struct {
	CSS          string
	RequiredText string
}

// FakeBridge implements browser.Bridge with scriptable behavior and
// call recording. The zero value reports nothing found, zero counts and
// nothing visible; tests override the function fields they care about.
type FakeBridge struct {
	mu sync.Mutex

	// FindFunc resolves Find calls. Nil means not found.
	FindFunc func(css, requiredText string) (string, bool)

	// CountFunc resolves Count calls. Nil means 0.
	CountFunc func(css string) int

	// VisibleFunc resolves Visible calls. Nil means false.
	VisibleFunc func(css string) bool

	// AttrFunc resolves CollectAttr calls. Nil means none.
	AttrFunc func(css, attr string) []string

	// EvalFunc resolves Eval calls. Nil means a no-op.
	EvalFunc func(js string, out any) error

	// ClickErr is returned from Click when set.
	ClickErr error

	// PingErr is returned from Ping when set.
	PingErr error

	// Blobs maps URLs to payloads for FetchBlob.
	Blobs map[string][]byte

	FindCalls  []FindCall
	Clicked    []string
	Evaled     []string
	Navigated  []string
	PingCount  int
	Injections int
}

func (f *FakeBridge) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Navigated = append(f.Navigated, url)
	return nil
}

func (f *FakeBridge) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PingCount++
	return f.PingErr
}

func (f *FakeBridge) InjectHelpers(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Injections++
	return nil
}

func (f *FakeBridge) Find(ctx context.Context, css, requiredText string) (string, bool, error) {
	f.mu.Lock()
	f.FindCalls = append(f.FindCalls, FindCall{CSS: css, RequiredText: requiredText})
	fn := f.FindFunc
	f.mu.Unlock()

	if fn == nil {
		return "", false, nil
	}
	locator, found := fn(css, requiredText)
	return locator, found, nil
}

func (f *FakeBridge) Count(ctx context.Context, css string) (int, error) {
	f.mu.Lock()
	fn := f.CountFunc
	f.mu.Unlock()
	if fn == nil {
		return 0, nil
	}
	return fn(css), nil
}

func (f *FakeBridge) Visible(ctx context.Context, css string) (bool, error) {
	f.mu.Lock()
	fn := f.VisibleFunc
	f.mu.Unlock()
	if fn == nil {
		return false, nil
	}
	return fn(css), nil
}

func (f *FakeBridge) CollectAttr(ctx context.Context, css, attr string) ([]string, error) {
	f.mu.Lock()
	fn := f.AttrFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(css, attr), nil
}

func (f *FakeBridge) Click(ctx context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Clicked = append(f.Clicked, locator)
	return f.ClickErr
}

func (f *FakeBridge) Eval(ctx context.Context, js string, out any) error {
	f.mu.Lock()
	f.Evaled = append(f.Evaled, js)
	fn := f.EvalFunc
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(js, out)
}

func (f *FakeBridge) FetchBlob(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.Blobs[url]; ok {
		return data, nil
	}
	return nil, errNoBlob(url)
}

func (f *FakeBridge) Close() error { return nil }

type errNoBlob string

func (e errNoBlob) Error() string { return "no blob registered for " + string(e) }

// SetFindFunc swaps the Find behavior mid-test, safely.
func (f *FakeBridge) SetFindFunc(fn func(css, requiredText string) (string, bool)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FindFunc = fn
}

// SetCountFunc swaps the Count behavior mid-test, safely.
func (f *FakeBridge) SetCountFunc(fn func(css string) int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CountFunc = fn
}

// SetAttrFunc swaps the CollectAttr behavior mid-test, safely.
func (f *FakeBridge) SetAttrFunc(fn func(css, attr string) []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AttrFunc = fn
}
