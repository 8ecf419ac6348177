package youtube

import (
	"fmt"
	"net/url"
	"strings"
)

// URL templates
const (
	WatchURLTemplate     = "https://www.youtube.com/watch?v=%s"
	ThumbnailURLTemplate = "https://i.ytimg.com/vi/%s/hqdefault.jpg"
)

// URL parameters
const (
	PlaylistParam = "list"
	VideoParam    = "v"
)

// IsAbsolute reports whether locator already carries an http(s) address prefix.
func IsAbsolute(locator string) bool {
	return strings.HasPrefix(locator, "http")
}

// WatchURL builds the canonical watch address for a bare video ID.
func WatchURL(videoID string) string {
	return fmt.Sprintf(WatchURLTemplate, videoID)
}

// ThumbnailURL returns the high quality thumbnail address for a video ID.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf(ThumbnailURLTemplate, videoID)
}

// PlaylistID extracts the playlist ID from a playlist or watch URL. Supported forms:
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=2
//   - PLAYLIST_ID on its own
func PlaylistID(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("%w: empty playlist locator", ErrInvalidURL)
	}
	if !IsAbsolute(locator) {
		if strings.ContainsAny(locator, "/?&=") {
			return "", fmt.Errorf("%w: %s", ErrInvalidURL, locator)
		}
		return locator, nil
	}

	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	id := u.Query().Get(PlaylistParam)
	if id == "" {
		return "", fmt.Errorf("%w: no %q parameter in %s", ErrInvalidURL, PlaylistParam, locator)
	}
	return id, nil
}

// VideoID extracts the video ID from watch, short, shorts and embed URLs.
// A bare ID is returned unchanged.
func VideoID(locator string) (string, bool) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", false
	}
	if !IsAbsolute(locator) {
		if strings.ContainsAny(locator, "/?&=") {
			return "", false
		}
		return locator, true
	}

	u, err := url.Parse(locator)
	if err != nil {
		return "", false
	}
	if id := u.Query().Get(VideoParam); id != "" {
		return id, true
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case host == "youtu.be" && len(segments) > 0 && segments[0] != "":
		return segments[0], true
	case len(segments) == 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
		return segments[1], true
	}
	return "", false
}
