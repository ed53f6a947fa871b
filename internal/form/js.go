package form

import (
	"fmt"
	"strconv"
)

// isContentEditableJS probes whether the element takes the
// contenteditable path.
func isContentEditableJS(locator string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  return !!(el && el.isContentEditable);
})()`, strconv.Quote(locator))
}

// nativeSetterJS sets the value through the prototype's own property
// descriptor. React shadows the value property on the instance; writing
// through the prototype setter and then dispatching input/change makes
// the framework observe the change as if the user typed it.
func nativeSetterJS(locator, value string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  el.focus();
  const proto = el instanceof HTMLTextAreaElement
    ? HTMLTextAreaElement.prototype
    : HTMLInputElement.prototype;
  const desc = Object.getOwnPropertyDescriptor(proto, 'value');
  if (!desc || !desc.set) return false;
  desc.set.call(el, '');
  desc.set.call(el, %s);
  el.dispatchEvent(new Event('input', { bubbles: true }));
  el.dispatchEvent(new Event('change', { bubbles: true }));
  return el.value === %s;
})()`, strconv.Quote(locator), strconv.Quote(value), strconv.Quote(value))
}

// execCommandJS types the value through the editing command path, which
// some controlled inputs accept when the setter bypass does not stick.
func execCommandJS(locator, value string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  el.focus();
  el.select && el.select();
  document.execCommand('selectAll', false, null);
  const ok = document.execCommand('insertText', false, %s);
  return ok && el.value === %s;
})()`, strconv.Quote(locator), strconv.Quote(value), strconv.Quote(value))
}

// directAssignJS is the last resort: plain property assignment plus
// synthetic events. The framework may ignore it, but some fields are
// uncontrolled.
func directAssignJS(locator, value string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  el.value = %s;
  el.dispatchEvent(new Event('input', { bubbles: true }));
  el.dispatchEvent(new Event('change', { bubbles: true }));
  return el.value === %s;
})()`, strconv.Quote(locator), strconv.Quote(value), strconv.Quote(value))
}

// contentEditableJS assigns text directly; contenteditable surfaces
// have no value property to shadow.
func contentEditableJS(locator, value string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  el.focus();
  el.textContent = %s;
  el.dispatchEvent(new InputEvent('input', { bubbles: true }));
  return true;
})()`, strconv.Quote(locator), strconv.Quote(value))
}

// toggleStateJS reads a switch's current state from its ARIA or
// data-state attributes.
func toggleStateJS(locator string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return null;
  if (el.getAttribute('aria-checked') !== null) return el.getAttribute('aria-checked') === 'true';
  if (el.getAttribute('aria-pressed') !== null) return el.getAttribute('aria-pressed') === 'true';
  return el.getAttribute('data-state') === 'checked';
})()`, strconv.Quote(locator))
}
