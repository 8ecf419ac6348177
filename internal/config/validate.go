package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (s *Settings) Validate() error {
	if err := s.validateCatalog(); err != nil {
		return err
	}
	if err := s.validateDownload(); err != nil {
		return err
	}
	return s.validateLogging()
}

func (s *Settings) validateCatalog() error {
	switch s.Catalog.Provider {
	case ProviderYtdlp, ProviderNative:
		return nil
	default:
		return fmt.Errorf("catalog.provider must be %q or %q, got %q", ProviderYtdlp, ProviderNative, s.Catalog.Provider)
	}
}

func (s *Settings) validateDownload() error {
	if strings.TrimSpace(s.Download.AudioCodec) == "" {
		return errors.New("download.audio_codec must be set")
	}
	if strings.TrimSpace(s.Download.AudioQuality) == "" {
		return errors.New("download.audio_quality must be set")
	}
	if s.Download.SaveCoverArtInTags && s.Download.CoverArtInTagsMaxSize <= 0 {
		return errors.New("download.cover_art_in_tags_max_size must be positive")
	}
	if s.Download.ThumbnailTimeout < 0 {
		return errors.New("download.thumbnail_timeout must not be negative")
	}
	switch s.Download.PlaylistFormat {
	case "m3u", "pls":
	default:
		return fmt.Errorf("download.playlist_format must be m3u or pls, got %q", s.Download.PlaylistFormat)
	}
	return nil
}

func (s *Settings) validateLogging() error {
	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", s.Logging.Level)
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", s.Logging.Format)
	}
	return nil
}
