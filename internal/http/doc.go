// Package http provides HTTP client utilities for suno-batch-generator.
//
// This package wraps the standard library's HTTP client with:
//   - Browser-like User-Agent and session headers (cookie, bearer token)
//   - Context-aware request methods
//   - JSON helpers for the site's private API
//   - Progress tracking for downloads
//   - Consistent error handling with response-body snippets
//
// The main type is Client:
//
//	client := http.NewClient()
//	client.SetSession(cookie, token)
//	var feed []dto.Clip
//	err := client.GetJSON(ctx, feedURL, &feed)
//
// For large audio files, use DownloadFile which streams to disk:
//
//	err := client.DownloadFile(ctx, url, path, progressCallback)
package http
