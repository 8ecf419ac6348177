package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvYtdlpPath      = "YOTO_MAKER_YTDLP_PATH"
	EnvFFmpegLocation = "YOTO_MAKER_FFMPEG_LOCATION"
	EnvProvider       = "YOTO_MAKER_PROVIDER"
	EnvLogLevel       = "YOTO_MAKER_LOG_LEVEL"
)

// LoadDotEnv loads variables from a .env file without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Settings) applyEnv() {
	if v, ok := lookupEnv(EnvYtdlpPath); ok {
		s.Ytdlp.Path = v
	}
	if v, ok := lookupEnv(EnvFFmpegLocation); ok {
		s.Ytdlp.FFmpegLocation = v
	}
	if v, ok := lookupEnv(EnvProvider); ok {
		s.Catalog.Provider = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok {
		s.Logging.Level = v
	}
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
