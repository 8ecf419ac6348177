// Package deps reports whether the external programs yoto-maker shells out
// to are installed: yt-dlp, ffmpeg and the JavaScript runtime yt-dlp uses
// for YouTube challenges.
package deps
