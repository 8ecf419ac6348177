package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/kittenwhisky/yoto-maker/internal/io"
	"github.com/pelletier/go-toml/v2"
)

// Catalog providers.
const (
	ProviderYtdlp  = "ytdlp"
	ProviderNative = "native"
)

const (
	defaultConfigPath  = "~/.config/yoto-maker/config.toml"
	projectConfigName  = "yoto-maker.toml"
	defaultCatalogPath = "tracks.csv"
	defaultOutputDir   = "./output"
)

// Ytdlp configures the yt-dlp executable.
type Ytdlp struct {
	Path             string   `toml:"path"`
	FFmpegLocation   string   `toml:"ffmpeg_location"`
	JSRuntime        string   `toml:"js_runtime"`
	RemoteComponents string   `toml:"remote_components"`
	ExtraArgs        []string `toml:"extra_args"`
}

// Catalog configures playlist cataloging.
type Catalog struct {
	// Provider is "ytdlp" (subprocess) or "native" (Go client).
	Provider      string `toml:"provider"`
	DefaultOutput string `toml:"default_output"`
}

// Download configures the batch downloader and its post-processing.
type Download struct {
	DefaultOutputDir string `toml:"default_output_dir"`
	Format           string `toml:"format"`
	AudioCodec       string `toml:"audio_codec"`
	AudioQuality     string `toml:"audio_quality"`

	// Tag settings
	ModifyTags bool `toml:"modify_tags"`

	// Cover art settings
	SaveCoverArtInTags    bool `toml:"save_cover_art_in_tags"`
	CoverArtInTagsMaxSize int  `toml:"cover_art_in_tags_max_size"`
	ThumbnailTimeout      int  `toml:"thumbnail_timeout"`

	// Playlist settings
	CreatePlaylist bool   `toml:"create_playlist"`
	PlaylistFormat string `toml:"playlist_format"` // m3u, pls
	M3UExtended    bool   `toml:"m3u_extended"`
}

// Logging configures diagnostic output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives diagnostics instead of stderr when set.
	File string `toml:"file"`
}

// Settings holds all configuration options.
type Settings struct {
	Ytdlp    Ytdlp    `toml:"ytdlp"`
	Catalog  Catalog  `toml:"catalog"`
	Download Download `toml:"download"`
	Logging  Logging  `toml:"logging"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Ytdlp: Ytdlp{
			Path:             "yt-dlp",
			JSRuntime:        "node",
			RemoteComponents: "ejs:github",
		},
		Catalog: Catalog{
			Provider:      ProviderYtdlp,
			DefaultOutput: defaultCatalogPath,
		},
		Download: Download{
			DefaultOutputDir: defaultOutputDir,
			Format:           "bestaudio/best",
			AudioCodec:       "mp3",
			AudioQuality:     "192",

			ModifyTags: true,

			SaveCoverArtInTags:    true,
			CoverArtInTagsMaxSize: 500,
			ThumbnailTimeout:      30,

			CreatePlaylist: false,
			PlaylistFormat: "m3u",
			M3UExtended:    true,
		},
		Logging: Logging{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load locates, parses and validates the configuration. An explicit path
// wins; otherwise the per-user file and then ./yoto-maker.toml are tried.
// Missing files yield defaults. YOTO_MAKER_* environment variables override
// file values. Load returns the resolved path and whether it existed.
func Load(path string) (*Settings, string, bool, error) {
	settings := DefaultSettings()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := toml.Unmarshal(data, settings); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	settings.applyEnv()

	if err := settings.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := settings.Validate(); err != nil {
		return nil, "", false, err
	}

	return settings, resolvedPath, exists, nil
}

// Save writes settings to a TOML file, creating parent directories.
func (s *Settings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return ioutils.WriteFileAtomic(path, data)
}

func (s *Settings) normalize() error {
	s.Ytdlp.Path = strings.TrimSpace(s.Ytdlp.Path)
	if s.Ytdlp.Path == "" {
		s.Ytdlp.Path = "yt-dlp"
	}
	var err error
	if s.Ytdlp.FFmpegLocation, err = ExpandPath(strings.TrimSpace(s.Ytdlp.FFmpegLocation)); err != nil {
		return fmt.Errorf("ytdlp.ffmpeg_location: %w", err)
	}
	s.Ytdlp.JSRuntime = strings.TrimSpace(s.Ytdlp.JSRuntime)
	s.Ytdlp.RemoteComponents = strings.TrimSpace(s.Ytdlp.RemoteComponents)

	s.Catalog.Provider = strings.ToLower(strings.TrimSpace(s.Catalog.Provider))
	if s.Catalog.Provider == "" {
		s.Catalog.Provider = ProviderYtdlp
	}
	if strings.TrimSpace(s.Catalog.DefaultOutput) == "" {
		s.Catalog.DefaultOutput = defaultCatalogPath
	}

	if strings.TrimSpace(s.Download.DefaultOutputDir) == "" {
		s.Download.DefaultOutputDir = defaultOutputDir
	}
	s.Download.PlaylistFormat = strings.ToLower(strings.TrimSpace(s.Download.PlaylistFormat))
	if s.Download.PlaylistFormat == "" {
		s.Download.PlaylistFormat = "m3u"
	}

	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	if s.Logging.Level == "" {
		s.Logging.Level = "warn"
	}
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format == "" {
		s.Logging.Format = "console"
	}
	if s.Logging.File, err = ExpandPath(strings.TrimSpace(s.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ExpandPath resolves a leading ~ and makes the path absolute. Empty stays empty.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
