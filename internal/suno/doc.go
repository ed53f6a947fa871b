// Package suno talks to the site's private REST API.
//
// The surface is informal and version-fragile: an endpoint to submit a
// generation, a feed endpoint for clip status/metadata by id, a
// lossless-conversion endpoint pair, and a billing/usage
// acknowledgement. Responses are decoded into the dto subpackage's
// types.
//
// PollUntilReady encodes the format-dependent readiness rule: the
// "streaming" state is enough to fetch compressed audio, but a wav
// conversion is only valid once the clip is fully "complete".
package suno
