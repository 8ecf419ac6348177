package youtube

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lrstanley/go-ytdlp"
)

// Entry is one item of a flat playlist extraction. Any field may be empty.
type Entry struct {
	ID         string
	Title      string
	URL        string
	WebpageURL string
}

// Provider lists playlist entries in playlist order without downloading media.
type Provider interface {
	PlaylistEntries(ctx context.Context, playlistURL string) ([]Entry, error)
}

// CommandProvider lists playlists with `yt-dlp --flat-playlist -J`.
type CommandProvider struct {
	tool Tool
}

// NewCommandProvider creates a provider backed by the given yt-dlp invocation.
func NewCommandProvider(tool Tool) *CommandProvider {
	return &CommandProvider{tool: tool}
}

// PlaylistEntries runs a flat extraction and decodes the entries. A URL that
// resolves to a single video (no entries) yields an empty list.
func (p *CommandProvider) PlaylistEntries(ctx context.Context, playlistURL string) ([]Entry, error) {
	result, err := p.tool.run(ctx, "list playlist", p.command(), p.tool.urlArgs(playlistURL)...)
	if err != nil {
		return nil, err
	}
	return parseFlatPlaylist([]byte(result.Stdout))
}

func (p *CommandProvider) command() *ytdlp.Command {
	return p.tool.command().
		FlatPlaylist().
		DumpSingleJSON()
}

func parseFlatPlaylist(data []byte) ([]Entry, error) {
	raw := json.RawMessage(data)
	info, err := ytdlp.ParseExtractedInfo(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	entries := make([]Entry, 0, len(info.Entries))
	for _, e := range info.Entries {
		// yt-dlp emits null for entries it could not resolve
		if e == nil {
			entries = append(entries, Entry{})
			continue
		}
		entries = append(entries, Entry{
			ID:         e.ID,
			Title:      value(e.Title),
			URL:        value(e.URL),
			WebpageURL: value(e.WebpageURL),
		})
	}
	return entries, nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
