// Package download turns completed generations into saved audio files.
//
// # Strategies
//
// Three retrieval strategies exist, tried in fallback order:
//
//  1. UIMenuStrategy drives the clip's context menu in the page and
//     captures the transient blob link the site creates. It is the
//     only path that works without API credentials.
//  2. APIStrategy polls the site's private REST API for the clip's
//     audio URL, triggering lossless conversion first for WAV output.
//  3. CDNStrategy guesses the conventional CDN URL from the clip id.
//
// Retriever runs the chain with exponential-cooldown retries and hands
// the winning Artifact to a Sink. FileSink is the standard sink: it
// writes the file under the configured downloads directory and applies
// ID3 tags plus cover art to MP3 output.
//
// The two clips of one generation download concurrently, limited to
// two in flight.
package download
