package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kittenwhisky/yoto-maker/internal/model"
	"github.com/kittenwhisky/yoto-maker/internal/youtube"
)

// Builder turns a playlist into a catalog file.
type Builder struct {
	provider   youtube.Provider
	logger     *slog.Logger
	onProgress func(string)
}

// NewBuilder creates a Builder. onProgress receives user-facing status lines
// and may be nil.
func NewBuilder(provider youtube.Provider, logger *slog.Logger, onProgress func(string)) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		provider:   provider,
		logger:     logger,
		onProgress: onProgress,
	}
}

// Build lists the playlist, numbers its entries from 1 and writes them to
// req.OutputPath. It returns the number of tracks written. Provider errors
// are returned before anything is written.
func (b *Builder) Build(ctx context.Context, req model.CatalogRequest) (int, error) {
	b.progress("Fetching playlist info...")
	b.logger.Info("listing playlist", "url", req.PlaylistURL)

	entries, err := b.provider.PlaylistEntries(ctx, req.PlaylistURL)
	if err != nil {
		return 0, fmt.Errorf("failed to list playlist: %w", err)
	}

	tracks := Tracks(entries)
	if err := WriteFile(req.OutputPath, tracks); err != nil {
		return 0, err
	}

	b.logger.Info("catalog written", "path", req.OutputPath, "tracks", len(tracks))
	b.progress(fmt.Sprintf("✓ Saved %d tracks to %s", len(tracks), req.OutputPath))
	return len(tracks), nil
}

func (b *Builder) progress(msg string) {
	if b.onProgress != nil {
		b.onProgress(msg)
	}
}

// Tracks normalizes provider entries into numbered tracks.
func Tracks(entries []youtube.Entry) []*model.Track {
	tracks := make([]*model.Track, 0, len(entries))
	for i, e := range entries {
		title := e.Title
		if strings.TrimSpace(title) == "" {
			title = model.DefaultTitle
		}
		tracks = append(tracks, model.NewTrack(i+1, title, EntryURL(e)))
	}
	return tracks
}

// EntryURL picks the entry's url, then webpage_url, then id. Anything that is
// not already an http(s) address is treated as a video ID. An entry with none
// of the three yields "".
func EntryURL(e youtube.Entry) string {
	u := e.URL
	if u == "" {
		u = e.WebpageURL
	}
	if u == "" {
		u = e.ID
	}
	if u == "" {
		return ""
	}
	if youtube.IsAbsolute(u) {
		return u
	}
	return youtube.WatchURL(u)
}
