package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/kittenwhisky/yoto-maker/internal/config"
	"github.com/kittenwhisky/yoto-maker/internal/logging"
	"github.com/kittenwhisky/yoto-maker/internal/youtube"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	settingsOnce sync.Once
	settings     *config.Settings
	configPath   string
	configExists bool
	settingsErr  error

	logFile io.Closer
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		if err := config.LoadDotEnv(""); err != nil {
			c.settingsErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		settings, resolved, exists, err := config.Load(path)
		if err != nil {
			c.settingsErr = err
			return
		}
		c.settings = settings
		c.configPath = resolved
		c.configExists = exists
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) isVerbose() bool {
	return c.verbose != nil && *c.verbose
}

// logger builds the diagnostic logger from the logging settings. The
// interactive menu owns the terminal, so without a log file its diagnostics
// are discarded.
func (c *commandContext) logger(interactive bool) (*slog.Logger, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}

	opts := logging.Options{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
	}
	if c.isVerbose() {
		opts.Level = "debug"
	}

	if path := settings.Logging.File; path != "" {
		file, err := logging.OpenFile(path)
		if err != nil {
			return nil, err
		}
		c.logFile = file
		opts.Output = file
	} else if interactive {
		return logging.NewNop(), nil
	} else {
		opts.Output = os.Stderr
	}

	return logging.New(opts)
}

func (c *commandContext) close() {
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}

func (c *commandContext) tool() youtube.Tool {
	y := c.settings.Ytdlp
	return youtube.Tool{
		Path:             y.Path,
		FFmpegLocation:   y.FFmpegLocation,
		JSRuntime:        y.JSRuntime,
		RemoteComponents: y.RemoteComponents,
		ExtraArgs:        y.ExtraArgs,
	}
}

func (c *commandContext) provider() youtube.Provider {
	if c.settings.Catalog.Provider == config.ProviderNative {
		return youtube.NewLibraryProvider()
	}
	return youtube.NewCommandProvider(c.tool())
}

func (c *commandContext) fetcher() youtube.Fetcher {
	return youtube.NewCommandFetcher(c.tool())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
