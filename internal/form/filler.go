package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/browser"
)

// ErrFillFailed is returned when every fill strategy was exhausted.
var ErrFillFailed = errors.New("all fill strategies failed")

// Filler sets values into the site's React-controlled inputs.
type Filler struct {
	bridge      browser.Bridge
	settleDelay time.Duration
}

// NewFiller creates a Filler over the given bridge.
func NewFiller(bridge browser.Bridge) *Filler {
	return &Filler{
		bridge:      bridge,
		settleDelay: 150 * time.Millisecond,
	}
}

type strategy struct {
	name string
	js   func(locator, value string) string
}

// inputStrategies is the fallback order for regular inputs and
// textareas.
var inputStrategies = []strategy{
	{"native-setter", nativeSetterJS},
	{"exec-command", execCommandJS},
	{"direct-assign", directAssignJS},
}

// Fill sets value into the element at locator so the framework observes
// the change as if the user typed it. It returns the name of the
// strategy that succeeded.
//
// Contenteditable elements take a distinct direct-text path. Every
// successful fill is followed by a short settle delay so the render
// cycle catches up before the next action.
func (f *Filler) Fill(ctx context.Context, locator, value string) (string, error) {
	var editable bool
	if err := f.bridge.Eval(ctx, isContentEditableJS(locator), &editable); err != nil {
		return "", err
	}

	if editable {
		var ok bool
		if err := f.bridge.Eval(ctx, contentEditableJS(locator, value), &ok); err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: contenteditable path for %q", ErrFillFailed, locator)
		}
		return "contenteditable", f.settle(ctx)
	}

	for _, s := range inputStrategies {
		var ok bool
		if err := f.bridge.Eval(ctx, s.js(locator, value), &ok); err != nil {
			return "", err
		}
		if ok {
			return s.name, f.settle(ctx)
		}
	}

	return "", fmt.Errorf("%w: %q", ErrFillFailed, locator)
}

// SetToggle ensures a switch is in the wanted state, clicking it only
// when its current state differs.
func (f *Filler) SetToggle(ctx context.Context, locator string, on bool) error {
	var state *bool
	if err := f.bridge.Eval(ctx, toggleStateJS(locator), &state); err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("toggle %q not found", locator)
	}
	if *state == on {
		return nil
	}
	if err := f.bridge.Click(ctx, locator); err != nil {
		return err
	}
	return f.settle(ctx)
}

func (f *Filler) settle(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.settleDelay):
		return nil
	}
}
