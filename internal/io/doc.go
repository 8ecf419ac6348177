// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Directory creation
//   - Atomic file replacement (temp file + rename)
//   - Removing partial downloads left behind by a failed fetch
//   - Image resizing and format conversion for embedded cover art
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
//	// Replace a file without ever exposing a truncated version
//	w, err := ioutils.NewAtomicWriter("/music/tracks.csv")
//	...
//	err = w.Commit()
//
//	// Remove "Song.webm.part", "Song.f251.webm", ... but keep "Song.mp3"
//	removed := ioutils.RemovePartials("/music/out", "Song", ".mp3")
//
// # Cover Art
//
// ImageService decodes JPEG, PNG or WebP thumbnails and re-encodes them as
// JPEG for the APIC frame, optionally shrinking them first:
//
//	cover, err := ioutils.NewImageService().ResizeImage(ctx, thumbnail, 500, 500)
package ioutils
