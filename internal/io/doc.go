// Package ioutils provides filesystem helpers and image processing for
// downloaded song artifacts.
//
// # Image Processing
//
// ImageService resizes and converts cover images before they are
// embedded into MP3 files as ID3 artwork. Cover art from the song
// service can be large; resizing keeps tagged files small.
//
// # Files
//
// EnsureDir and WriteFile wrap os with parent-directory creation so
// download sinks can write into per-job subfolders without a separate
// mkdir step.
package ioutils
