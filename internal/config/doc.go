// Package config handles application settings persistence and session
// credential loading.
//
// # Settings
//
// Settings control the queue (delays, timeouts, retries), the output
// (downloads path, audio format, file naming) and the browser session.
// They are stored as a single JSON file:
//
//	settings, err := config.Load("/home/user/.suno-batch/settings.json")
//	settings.AudioFormat = "wav"
//	err = settings.Save("/home/user/.suno-batch/settings.json")
//
// A missing settings file yields defaults. The runner reads an immutable
// snapshot at job start; Patch/Apply merge partial updates between jobs.
//
// # Credentials
//
// Credentials for the site's private API come from the environment
// (SUNO_COOKIE, SUNO_TOKEN), optionally seeded from a .env file:
//
//	creds, err := config.LoadCredentials("")
//	if creds.HasSession() { ... }
package config
