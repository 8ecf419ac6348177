package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kittenwhisky/yoto-maker/internal/model"
)

// PlaylistEntry is one line of a generated playlist.
type PlaylistEntry struct {
	// Path is the audio file. Only the base name is written.
	Path  string
	Title string
}

// PlaylistEntries collects the successful outcomes in catalog order.
func PlaylistEntries(outcomes []model.Outcome) []PlaylistEntry {
	var entries []PlaylistEntry
	for _, o := range outcomes {
		if !o.OK() || o.Path == "" {
			continue
		}
		entries = append(entries, PlaylistEntry{Path: o.Path, Title: o.Track.Title})
	}
	return entries
}

// PlaylistCreator generates playlist files.
//
// Track paths in the playlist are relative (just the filename), so the
// playlist must be written next to the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(PlaylistEntries(report.Outcomes))
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Song Title
//	// Song Title.mp3
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only applies to M3U.
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist renders the playlist content.
func (p *PlaylistCreator) CreatePlaylist(entries []PlaylistEntry) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(entries)
	default:
		return p.createM3U(entries)
	}
}

// createM3U generates an M3U playlist. Durations are not known, so extended
// entries use -1.
//
//	#EXTM3U
//	#EXTINF:-1,Title
//	Title.mp3
func (p *PlaylistCreator) createM3U(entries []PlaylistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", singleLine(e.Title)))
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=Title.mp3
//	Title1=Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(e.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, singleLine(e.Title)))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
