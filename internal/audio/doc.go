// Package audio provides post-processing for downloaded audio files: ID3
// tag writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to MP3 files:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, audio.Tags{Title: "Song", Album: "tracks", Number: 1}, artworkBytes)
//
// The tagger supports:
//   - Track Title and Album
//   - Track Number
//   - Source URL as a comment
//   - Cover Art (embedded in MP3)
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(audio.PlaylistEntries(outcomes))
//
// Supported formats are M3U (with optional extended info) and PLS.
package audio
