// Package monitor detects asynchronous completion of a remote
// generation.
//
// The site offers no single authoritative "done" event, so the monitor
// combines independent signals against a baseline recorded at start:
// the per-clip action button count, the audio element count, and a
// loading indicator that must disappear and stay gone for a
// stabilization window. Two concurrent detection channels (an in-page
// MutationObserver and a fixed-interval poll) race to fire the same
// completion check; whichever signals first wins and both are torn
// down. After a settle delay the current clip ids are diffed against
// the baseline, extending the wait briefly when the expected sibling
// clip has not appeared yet. A hard timeout bounds the whole watch.
package monitor
