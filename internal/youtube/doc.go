// Package youtube wraps the external tools that know how to talk to YouTube.
//
// Two capabilities are exposed, each behind a small interface so the catalog
// builder and the batch downloader can be tested with fakes:
//
//   - Provider lists the entries of a playlist without downloading media.
//     CommandProvider drives `yt-dlp --flat-playlist -J` through
//     github.com/lrstanley/go-ytdlp; LibraryProvider uses the native
//     github.com/ytget/ytdlp/v2 client.
//   - Fetcher downloads one URL and transcodes it to an audio file.
//     CommandFetcher runs `yt-dlp --extract-audio --audio-format mp3`, which in turn
//     invokes ffmpeg.
//
// # Basic Usage
//
//	tool := youtube.Tool{Path: "yt-dlp", JSRuntime: "node"}
//	entries, err := youtube.NewCommandProvider(tool).PlaylistEntries(ctx, playlistURL)
//
//	err = youtube.NewCommandFetcher(tool).FetchAudio(ctx, youtube.FetchRequest{
//	    URL:            entries[0].URL,
//	    OutputTemplate: youtube.OutputTemplate("/music/out", "Song"),
//	    Format:         youtube.DefaultFormat,
//	    AudioCodec:     youtube.DefaultAudioCodec,
//	    AudioQuality:   youtube.DefaultAudioQuality,
//	})
//
// Failures from yt-dlp are returned as *CommandError, whose message is the
// last "ERROR:" line yt-dlp printed.
package youtube
