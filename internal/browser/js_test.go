package browser

import (
	"strings"
	"testing"
)

func TestFindJSQuotesArguments(t *testing.T) {
	js := findJS(`button[aria-label="More"]`, `Download "now"`)

	if !strings.Contains(js, `\"More\"`) {
		t.Errorf("css quotes not escaped: %s", js)
	}
	if !strings.Contains(js, `\"now\"`) {
		t.Errorf("text quotes not escaped: %s", js)
	}
}

func TestCollectAttrJS(t *testing.T) {
	js := collectAttrJS("[data-clip-id]", "data-clip-id")
	if !strings.Contains(js, "querySelectorAll") || !strings.Contains(js, "getAttribute") {
		t.Errorf("unexpected script: %s", js)
	}
}

func TestFetchBlobJSAwaitsAndEncodes(t *testing.T) {
	js := fetchBlobJS("blob:https://suno.com/abc")
	for _, want := range []string{"await fetch", "arrayBuffer", "btoa"} {
		if !strings.Contains(js, want) {
			t.Errorf("script missing %q", want)
		}
	}
}
