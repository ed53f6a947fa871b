package download

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// The snippets below run in the page's unrestricted context. Menus on
// the target site are React-controlled; a trusted click sometimes gets
// swallowed by the framework's event delegation, so opening a menu is
// attempted through the in-page handler first and falls back to ever
// more direct dispatch methods.

// invokeHandlerJS calls the element's framework click handler directly,
// bypassing DOM event dispatch entirely.
func invokeHandlerJS(locator string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  const key = Object.keys(el).find((k) => k.startsWith('__reactProps'));
  if (key && typeof el[key].onClick === 'function') {
    el[key].onClick(new MouseEvent('click', { bubbles: true, cancelable: true }));
    return true;
  }
  if (typeof el.onclick === 'function') {
    el.onclick(new MouseEvent('click', { bubbles: true, cancelable: true }));
    return true;
  }
  return false;
})()`, strconv.Quote(locator))
}

// syntheticClickJS dispatches the full pointer/mouse event sequence a
// real click produces, untrusted but complete.
func syntheticClickJS(locator string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  const rect = el.getBoundingClientRect();
  const opts = {
    bubbles: true, cancelable: true, view: window,
    clientX: rect.left + rect.width / 2,
    clientY: rect.top + rect.height / 2,
  };
  for (const type of ['pointerdown', 'mousedown', 'pointerup', 'mouseup', 'click']) {
    const Ctor = type.startsWith('pointer') ? PointerEvent : MouseEvent;
    el.dispatchEvent(new Ctor(type, opts));
  }
  return true;
})()`, strconv.Quote(locator))
}

// keyboardActivateJS focuses the element and presses Enter.
func keyboardActivateJS(locator string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  el.focus();
  const opts = { bubbles: true, cancelable: true, key: 'Enter', code: 'Enter', keyCode: 13 };
  el.dispatchEvent(new KeyboardEvent('keydown', opts));
  el.dispatchEvent(new KeyboardEvent('keyup', opts));
  return true;
})()`, strconv.Quote(locator))
}

// rowMenuScanJS picks the last button in the clip's row whose
// accessible label matches none of the deny list, stamps a marker on
// it and returns the marker locator, or an empty string.
func rowMenuScanJS(clipID string, deny []string) string {
	denyJSON, _ := json.Marshal(deny)
	return fmt.Sprintf(`(() => {
  const row = document.querySelector('[data-clip-id=' + JSON.stringify(%s) + ']');
  if (!row) return '';
  const deny = %s;
  const buttons = Array.from(row.querySelectorAll('button'));
  for (let i = buttons.length - 1; i >= 0; i--) {
    const el = buttons[i];
    const label = (el.getAttribute('aria-label') || el.textContent || '').toLowerCase();
    if (deny.some((d) => label.includes(d))) continue;
    if (!el.dataset.sbgRef) {
      el.dataset.sbgRef = window.__sbg ? String(window.__sbg.nextRef++) : 'scan-' + i;
    }
    return '[data-sbg-ref="' + el.dataset.sbgRef + '"]';
  }
  return '';
})()`, strconv.Quote(clipID), string(denyJSON))
}

// hoverJS dispatches the hover event sequence that reveals
// hover-triggered submenus.
func hoverJS(locator string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  const rect = el.getBoundingClientRect();
  const opts = {
    bubbles: true, cancelable: true, view: window,
    clientX: rect.left + rect.width / 2,
    clientY: rect.top + rect.height / 2,
  };
  for (const type of ['pointerover', 'pointerenter', 'mouseover', 'mouseenter', 'mousemove']) {
    const Ctor = type.startsWith('pointer') ? PointerEvent : MouseEvent;
    el.dispatchEvent(new Ctor(type, opts));
  }
  return true;
})()`, strconv.Quote(locator))
}
