// Package config provides configuration management for yoto-maker.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - .env files and YOTO_MAKER_* environment overrides
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Catalogs with yt-dlp, downloads to ./output as 192 kbps MP3
//	// ID3 tagging and cover art enabled, no playlist file
//
// # Loading from File
//
//	settings, path, exists, err := config.Load("")
//	// Tries ~/.config/yoto-maker/config.toml, then ./yoto-maker.toml,
//	// then falls back to defaults.
//
// # Saving Settings
//
//	settings.Download.CreatePlaylist = true
//	err := settings.Save(path)
//
// # Environment
//
// YOTO_MAKER_YTDLP_PATH, YOTO_MAKER_FFMPEG_LOCATION, YOTO_MAKER_PROVIDER and
// YOTO_MAKER_LOG_LEVEL override the corresponding file values. Call
// LoadDotEnv first to pick them up from a .env file.
package config
