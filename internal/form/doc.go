// Package form fills the site's React-controlled inputs.
//
// React shadows the value property of its controlled inputs, so a plain
// assignment is reverted on the next render. Fill works around this by
// writing through the prototype's own value setter and dispatching
// synthetic input/change events; when that does not stick it falls back
// to document.execCommand("insertText"), and finally to direct
// assignment. Contenteditable elements take their own direct-text path.
// A short settle delay follows every fill.
package form
