package youtube

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Default fetch parameters.
const (
	DefaultFormat       = "bestaudio/best"
	DefaultAudioCodec   = "mp3"
	DefaultAudioQuality = "192"
)

// FetchRequest describes one fetch-and-transcode operation.
type FetchRequest struct {
	URL string

	// OutputTemplate is a yt-dlp output template, see OutputTemplate.
	OutputTemplate string

	Format       string
	AudioCodec   string
	AudioQuality string
}

// Fetcher downloads a single URL and leaves an audio file named after the
// request's output template.
type Fetcher interface {
	FetchAudio(ctx context.Context, req FetchRequest) error
}

// EscapeTemplate makes s literal inside a yt-dlp output template.
func EscapeTemplate(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// OutputTemplate returns "<dir>/<stem>.%(ext)s" with stem escaped, so the
// transcoded file ends up as exactly "<dir>/<stem>.<codec>".
func OutputTemplate(dir, stem string) string {
	return filepath.Join(EscapeTemplate(dir), EscapeTemplate(stem)+".%(ext)s")
}

// bitrate turns a plain kbps value such as "192" into yt-dlp's "192K".
// VBR levels 0-10 and values that already carry a unit pass through.
func bitrate(quality string) string {
	n, err := strconv.Atoi(quality)
	if err != nil || n <= 10 {
		return quality
	}
	return quality + "K"
}

// CommandFetcher fetches audio with `yt-dlp --extract-audio`.
type CommandFetcher struct {
	tool Tool
}

// NewCommandFetcher creates a fetcher backed by the given yt-dlp invocation.
func NewCommandFetcher(tool Tool) *CommandFetcher {
	return &CommandFetcher{tool: tool}
}

// FetchAudio runs yt-dlp for a single URL. Errors are *CommandError values
// whose message is yt-dlp's own error line.
func (f *CommandFetcher) FetchAudio(ctx context.Context, req FetchRequest) error {
	_, err := f.tool.run(ctx, "fetch audio", f.command(req), f.tool.urlArgs(req.URL)...)
	return err
}

func (f *CommandFetcher) command(req FetchRequest) *ytdlp.Command {
	format := req.Format
	if format == "" {
		format = DefaultFormat
	}
	codec := req.AudioCodec
	if codec == "" {
		codec = DefaultAudioCodec
	}
	quality := req.AudioQuality
	if quality == "" {
		quality = DefaultAudioQuality
	}

	return f.tool.command().
		Format(format).
		ExtractAudio().
		AudioFormat(codec).
		AudioQuality(bitrate(quality)).
		Output(req.OutputTemplate).
		NoPlaylist().
		NoProgress().
		Quiet()
}
