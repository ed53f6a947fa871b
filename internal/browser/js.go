package browser

import (
	"fmt"
	"strconv"
)

// helperScript is installed into the page once per tab (and again on
// re-injection after a liveness failure). It keeps a monotonically
// increasing marker counter and a DOM mutation counter the Go side can
// poll, and exposes a find() that mirrors the element resolution
// contract: first visible match, optional case-insensitive text filter.
const helperScript = `
(() => {
  if (window.__sbg && window.__sbg.ok) return true;

  const sbg = {
    ok: true,
    nextRef: 1,
    mutations: 0,
    observer: null,

    visible(el) {
      if (!el || !el.getClientRects().length) return false;
      const style = window.getComputedStyle(el);
      return style.visibility !== 'hidden' && style.display !== 'none';
    },

    find(css, text) {
      const needle = (text || '').toLowerCase();
      for (const el of document.querySelectorAll(css)) {
        if (!sbg.visible(el)) continue;
        if (needle && !(el.textContent || '').toLowerCase().includes(needle)) continue;
        if (!el.dataset.sbgRef) el.dataset.sbgRef = String(sbg.nextRef++);
        return '[data-sbg-ref="' + el.dataset.sbgRef + '"]';
      }
      return null;
    },

    observe() {
      if (sbg.observer) return;
      sbg.observer = new MutationObserver(() => { sbg.mutations++; });
      sbg.observer.observe(document.body, { childList: true, subtree: true });
    },

    disconnect() {
      if (sbg.observer) { sbg.observer.disconnect(); sbg.observer = null; }
    },
  };

  window.__sbg = sbg;
  return true;
})()
`

// pingJS answers true only when the helper script is installed and
// responsive.
const pingJS = `!!(window.__sbg && window.__sbg.ok)`

func findJS(css, requiredText string) string {
	return fmt.Sprintf(`window.__sbg ? window.__sbg.find(%s, %s) : null`,
		strconv.Quote(css), strconv.Quote(requiredText))
}

func countJS(css string) string {
	return fmt.Sprintf(`document.querySelectorAll(%s).length`, strconv.Quote(css))
}

func visibleJS(css string) string {
	return fmt.Sprintf(
		`(() => { for (const el of document.querySelectorAll(%s)) if (window.__sbg && window.__sbg.visible(el)) return true; return false; })()`,
		strconv.Quote(css))
}

func collectAttrJS(css, attr string) string {
	return fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(el => el.getAttribute(%s)).filter(v => v)`,
		strconv.Quote(css), strconv.Quote(attr))
}

// fetchBlobJS fetches the URL with the page's own cookies and returns
// the payload base64-encoded. Blob object URLs only resolve in-page, so
// this is the only way to recover their bytes.
func fetchBlobJS(url string) string {
	return fmt.Sprintf(`
(async () => {
  const resp = await fetch(%s);
  if (!resp.ok) throw new Error('fetch failed: ' + resp.status);
  const buf = await resp.arrayBuffer();
  let binary = '';
  const bytes = new Uint8Array(buf);
  const chunk = 0x8000;
  for (let i = 0; i < bytes.length; i += chunk) {
    binary += String.fromCharCode.apply(null, bytes.subarray(i, i + chunk));
  }
  return btoa(binary);
})()`, strconv.Quote(url))
}
