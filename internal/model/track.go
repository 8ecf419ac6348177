package model

import (
	"strconv"
	"strings"
)

// Canonical catalog column names.
const (
	ColumnTrackNumber = "track_number"
	ColumnTitle       = "title"
	ColumnURL         = "url"
)

// DefaultTitle is used when the playlist provider returns an entry without a title.
const DefaultTitle = "Untitled"

// CatalogColumns is the header row written by the catalog builder.
var CatalogColumns = []string{ColumnTrackNumber, ColumnTitle, ColumnURL}

// Field is a single named CSV value.
type Field struct {
	Name  string
	Value string
}

// Track represents a single catalog entry.
//
// Example:
//
//	track := NewTrack(3, "Wheels on the Bus", "https://www.youtube.com/watch?v=abc")
//	track.FileName("mp3") // "Wheels on the Bus.mp3"
type Track struct {
	// Number is the 1-based position assigned when the catalog was built.
	Number int

	// Title is used verbatim as the output filename stem.
	Title string

	// URL is the absolute address handed to the fetcher.
	URL string

	// Fields holds the row exactly as it was read from a catalog file, in
	// header order. Empty for tracks created in memory.
	Fields []Field
}

// NewTrack creates a track that is not backed by a CSV row.
func NewTrack(number int, title, url string) *Track {
	return &Track{
		Number: number,
		Title:  title,
		URL:    url,
	}
}

// Columns returns the fields to serialize for this track. Tracks read from a
// file return their original columns; in-memory tracks return the canonical
// track_number, title and url.
func (t *Track) Columns() []Field {
	if len(t.Fields) > 0 {
		out := make([]Field, len(t.Fields))
		copy(out, t.Fields)
		return out
	}
	return []Field{
		{Name: ColumnTrackNumber, Value: strconv.Itoa(t.Number)},
		{Name: ColumnTitle, Value: t.Title},
		{Name: ColumnURL, Value: t.URL},
	}
}

// FileName returns "<title>.<ext>".
func (t *Track) FileName(ext string) string {
	return t.Title + "." + strings.TrimPrefix(ext, ".")
}

// ParseTrackNumber parses a track_number cell. Values that are not positive
// integers report false.
func ParseTrackNumber(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
