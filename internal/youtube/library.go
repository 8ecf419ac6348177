package youtube

import (
	"context"
	"fmt"

	"github.com/ytget/ytdlp/v2"
)

// LibraryProvider lists playlists with the native Go client from
// github.com/ytget/ytdlp/v2, so catalogs can be built without yt-dlp installed.
type LibraryProvider struct {
	// Limit caps the number of items fetched. Zero fetches everything.
	Limit int
}

// NewLibraryProvider creates a provider that fetches every playlist item.
func NewLibraryProvider() *LibraryProvider {
	return &LibraryProvider{}
}

// PlaylistEntries resolves the playlist ID from playlistURL and pages through
// all of its items. Entries carry the bare video ID as URL.
func (p *LibraryProvider) PlaylistEntries(ctx context.Context, playlistURL string) ([]Entry, error) {
	playlistID, err := PlaylistID(playlistURL)
	if err != nil {
		return nil, err
	}

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			ID:    item.VideoID,
			Title: item.Title,
			URL:   item.VideoID,
		})
	}
	return entries, nil
}
