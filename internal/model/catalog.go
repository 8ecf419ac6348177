package model

import (
	"path/filepath"
	"strings"
)

// ErrorReportSuffix is appended to the catalog's file stem to name the error report.
const ErrorReportSuffix = " - error report"

// Catalog is an ordered list of tracks backed by a CSV file.
type Catalog struct {
	// Path is the catalog file location.
	Path string

	// Name is the file name without directory and extension.
	Name string

	// Tracks are kept in file order.
	Tracks []*Track
}

// NewCatalog creates a catalog for the file at path.
func NewCatalog(path string, tracks []*Track) *Catalog {
	return &Catalog{
		Path:   path,
		Name:   Stem(path),
		Tracks: tracks,
	}
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.Tracks)
}

// ErrorReportPath returns the sibling file that receives failed rows:
// "<dir>/<stem> - error report.csv".
func (c *Catalog) ErrorReportPath() string {
	return filepath.Join(filepath.Dir(c.Path), c.Name+ErrorReportSuffix+".csv")
}

// PlaylistPath returns where a playlist of this catalog is written inside dir.
func (c *Catalog) PlaylistPath(dir string, format PlaylistFormat) string {
	return filepath.Join(dir, c.Name+format.Extension())
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS
)

// ParsePlaylistFormat maps a config value to a PlaylistFormat, defaulting to M3U.
func ParsePlaylistFormat(value string) PlaylistFormat {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pls":
		return PlaylistFormatPLS
	default:
		return PlaylistFormatM3U
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	default:
		return ".m3u"
	}
}
