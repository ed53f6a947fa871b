package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cookie"); got != "session=abc" {
			t.Errorf("Cookie header = %q, want session=abc", got)
		}
		w.Write([]byte(`{"id":"clip-1","status":"complete"}`))
	}))
	defer srv.Close()

	client := NewClient()
	client.SetSession("session=abc", "")

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := client.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.ID != "clip-1" || out.Status != "complete" {
		t.Errorf("decoded %+v", out)
	}
}

func TestPostJSON_ErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"detail":"insufficient credits"}`))
	}))
	defer srv.Close()

	client := NewClient()
	err := client.PostJSON(context.Background(), srv.URL, map[string]string{"prompt": "x"}, nil)
	if err == nil {
		t.Fatal("expected error for 402 response")
	}
	if !strings.Contains(err.Error(), "402") || !strings.Contains(err.Error(), "insufficient credits") {
		t.Errorf("error %q should carry status and body", err)
	}
}

func TestPostJSON_ErrorMatchesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient()
	err := client.PostJSON(context.Background(), srv.URL, nil, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %v is not a *StatusError", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want 404", statusErr.Code)
	}
}

func TestGetFileSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Length", "12345")
	}))
	defer srv.Close()

	client := NewClient()
	size, err := client.GetFileSize(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetFileSize: %v", err)
	}
	if size != 12345 {
		t.Errorf("size = %d, want 12345", size)
	}
}

func TestDownloadBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("cover art"))
	}))
	defer srv.Close()

	client := NewClient()
	data, err := client.DownloadBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("DownloadBytes: %v", err)
	}
	if string(data) != "cover art" {
		t.Errorf("data = %q", data)
	}
}

func TestDownloadFile(t *testing.T) {
	payload := []byte("fake audio bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "clip.mp3")

	var lastWritten int64
	client := NewClient()
	err := client.DownloadFile(context.Background(), srv.URL, dest, func(written, total int64) {
		lastWritten = written
	})
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("file content = %q, want %q", data, payload)
	}
	if lastWritten != int64(len(payload)) {
		t.Errorf("progress reported %d bytes, want %d", lastWritten, len(payload))
	}
}
