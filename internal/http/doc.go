// Package http provides the HTTP client used for auxiliary downloads.
//
// Media itself is fetched by yt-dlp; this client only retrieves small
// resources such as video thumbnails that become embedded cover art.
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Download a thumbnail into memory
//	data, err := client.DownloadBytes(ctx, "https://i.ytimg.com/vi/VIDEO_ID/hqdefault.jpg")
//
// Non-200 responses are reported as *StatusError.
package http
