package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvYtdlpPath, EnvFFmpegLocation, EnvProvider, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	if s.Catalog.Provider != ProviderYtdlp {
		t.Errorf("default provider = %q", s.Catalog.Provider)
	}
	if s.Download.AudioQuality != "192" || s.Download.AudioCodec != "mp3" {
		t.Errorf("default audio = %s/%s", s.Download.AudioCodec, s.Download.AudioQuality)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "missing.toml")

	s, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for missing file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if s.Download.DefaultOutputDir != "./output" {
		t.Errorf("DefaultOutputDir = %q", s.Download.DefaultOutputDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	s := DefaultSettings()
	s.Catalog.Provider = ProviderNative
	s.Download.CreatePlaylist = true
	s.Download.PlaylistFormat = "pls"
	s.Ytdlp.ExtraArgs = []string{"--cookies", "cookies.txt"}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("exists = false after Save")
	}
	if loaded.Catalog.Provider != ProviderNative {
		t.Errorf("Provider = %q", loaded.Catalog.Provider)
	}
	if !loaded.Download.CreatePlaylist || loaded.Download.PlaylistFormat != "pls" {
		t.Errorf("playlist settings = %+v", loaded.Download)
	}
	if strings.Join(loaded.Ytdlp.ExtraArgs, " ") != "--cookies cookies.txt" {
		t.Errorf("ExtraArgs = %v", loaded.Ytdlp.ExtraArgs)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[download]\ncreate_playlist = true\n\n[logging]\nlevel = \"DEBUG\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.Download.CreatePlaylist {
		t.Error("create_playlist not applied")
	}
	if s.Download.AudioCodec != "mp3" {
		t.Errorf("AudioCodec = %q, want default", s.Download.AudioCodec)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("Level = %q, want normalized debug", s.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvYtdlpPath, "/opt/bin/yt-dlp")
	t.Setenv(EnvProvider, "NATIVE")
	t.Setenv(EnvLogLevel, "info")

	s, _, _, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Ytdlp.Path != "/opt/bin/yt-dlp" {
		t.Errorf("Ytdlp.Path = %q", s.Ytdlp.Path)
	}
	if s.Catalog.Provider != ProviderNative {
		t.Errorf("Provider = %q", s.Catalog.Provider)
	}
	if s.Logging.Level != "info" {
		t.Errorf("Level = %q", s.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad provider", "[catalog]\nprovider = \"spotify\"\n", "catalog.provider"},
		{"bad playlist", "[download]\nplaylist_format = \"wpl\"\n", "download.playlist_format"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"bad cover size", "[download]\ncover_art_in_tags_max_size = 0\n", "cover_art_in_tags_max_size"},
		{"bad toml", "[download\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte(EnvFFmpegLocation+"=/opt/ffmpeg\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv(EnvFFmpegLocation)
	t.Cleanup(func() { os.Unsetenv(EnvFFmpegLocation) })

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvFFmpegLocation); got != "/opt/ffmpeg" {
		t.Errorf("%s = %q", EnvFFmpegLocation, got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Errorf("ExpandPath(~/music) = %q", got)
	}

	if got, _ := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}

	rel, _ := ExpandPath("out")
	if !filepath.IsAbs(rel) {
		t.Errorf("ExpandPath(out) = %q, want absolute", rel)
	}
}
